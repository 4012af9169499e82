// Package repository handles all interactions with the database.
//
// It contains the SQL, built with squirrel, that fetches, persists or
// updates rows, abstracting SQL logic away from the service layer.
//
// Every repository runs against a database.DBTX, so the same code works on
// the pool, inside a transaction (see each repository's InTx) and against
// pgxmock in tests.
package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// dbError maps a driver error into an application error naming table.
func dbError(table string, err error) error {
	return sqlerr.HandleError(sqlerr.WithTable(table, err))
}

// selectAll runs b and scans every row with scan.
func selectAll[T any](ctx context.Context, db database.DBTX, table string, b sq.SelectBuilder, scan pgx.RowToFunc[T]) ([]T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError(table, err)
	}

	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, dbError(table, err)
	}
	return items, nil
}

// selectFirst runs b limited to one row. ok is false when nothing matched.
func selectFirst[T any](ctx context.Context, db database.DBTX, table string, b sq.SelectBuilder, scan pgx.RowToFunc[T]) (item T, ok bool, err error) {
	items, err := selectAll(ctx, db, table, b.Limit(1), scan)
	if err != nil || len(items) == 0 {
		return item, false, err
	}
	return items[0], true, nil
}

// scalar runs b and scans its single value. A missing row becomes a
// not-found error.
func scalar[T any](ctx context.Context, db database.DBTX, table string, b sq.Sqlizer) (T, error) {
	var value T

	sql, args, err := b.ToSql()
	if err != nil {
		return value, errors.Wrap(err, "building query")
	}

	if err := db.QueryRow(ctx, sql, args...).Scan(&value); err != nil {
		return value, dbError(table, err)
	}
	return value, nil
}

// exec runs a write statement and returns the number of affected rows.
func exec(ctx context.Context, db database.DBTX, table string, b sq.Sqlizer) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building statement")
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, dbError(table, err)
	}
	return tag.RowsAffected(), nil
}

// insert runs b with RETURNING id and returns the generated id.
func insert(ctx context.Context, db database.DBTX, table string, b sq.InsertBuilder) (int64, error) {
	return scalar[int64](ctx, db, table, b.Suffix("RETURNING id"))
}

// scanString scans a single text column.
func scanString(row pgx.CollectableRow) (string, error) {
	var s string
	err := row.Scan(&s)
	return s, err
}

// nullable stores an empty string as NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
