// Package query holds the SQL building blocks shared by the repositories.
//
// Statements are composed with squirrel and rendered with PostgreSQL
// "$n" placeholders. The helpers here are the named fragments that more
// than one repository needs: escaped substring filters, the "rank by
// related count" aggregation used by every top-X query, and the
// uniqueness probe used before inserts.
package query

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Psql is the statement builder every repository starts from.
var Psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns s into an ILIKE pattern matching any value that
// contains s. LIKE wildcards inside s match literally.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Contains is a case-insensitive substring filter on column.
func Contains(column, s string) sq.Sqlizer {
	return sq.ILike{column: ContainsPattern(s)}
}

// AnyContains matches rows where at least one of columns contains s.
func AnyContains(s string, columns ...string) sq.Sqlizer {
	or := make(sq.Or, 0, len(columns))
	for _, column := range columns {
		or = append(or, Contains(column, s))
	}
	return or
}

// Filter is one optional substring criterion. A nil Value means "not
// supplied".
type Filter struct {
	Column string
	Value  *string
}

// AllContains ANDs the supplied filters together. ok is false when no
// filter was supplied, which callers treat as "return the empty result".
func AllContains(filters ...Filter) (pred sq.Sqlizer, ok bool) {
	and := sq.And{}
	for _, f := range filters {
		if f.Value == nil {
			continue
		}
		and = append(and, Contains(f.Column, *f.Value))
	}
	if len(and) == 0 {
		return nil, false
	}
	return and, true
}

// Rank describes a "rank entities by related row count" aggregation.
//
// From is the entity table (with alias), Key its primary key, Join the
// LEFT JOIN bringing in the related rows and Counted the related column
// to count. Ties on the count are broken by TieBreak ascending.
type Rank struct {
	From     string
	Key      string
	Join     string
	Counted  string
	As       string
	TieBreak string
}

// RankByCount builds the ranking query selecting columns plus the count
// aliased as r.As. Entities without related rows are kept with a count
// of zero; callers decide what a zero at the top means.
func RankByCount(r Rank, columns ...string) sq.SelectBuilder {
	cols := append(append([]string{}, columns...), fmt.Sprintf("COUNT(%s) AS %s", r.Counted, r.As))

	return Psql.Select(cols...).
		From(r.From).
		LeftJoin(r.Join).
		GroupBy(r.Key).
		OrderBy(r.As+" DESC", r.TieBreak+" ASC")
}

// Querier is the read surface Taken needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Taken reports whether another row of table already holds value in
// column. exceptID excludes the row being updated; pass nil on insert.
func Taken(ctx context.Context, db Querier, table, column string, value any, exceptID *int64) (bool, error) {
	inner := Psql.Select("1").From(table).Where(sq.Eq{column: value})
	if exceptID != nil {
		inner = inner.Where(sq.NotEq{"id": *exceptID})
	}

	sql, args, err := inner.Prefix("SELECT EXISTS(").Suffix(")").ToSql()
	if err != nil {
		return false, errors.Wrap(err, "building uniqueness query")
	}

	var exists bool
	if err := db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, errors.Wrapf(sqlerr.HandleError(err), "checking %s.%s uniqueness", table, column)
	}
	return exists, nil
}
