// Package admin holds the admin-panel configuration of the entities:
// which columns a change list shows, which ones it can be filtered by,
// which ones the search box looks at and which ones are read-only.
//
// Rendering the panel is somebody else's job. This package only turns a
// configuration plus a search term and filters into the listing query.
package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/deppfellow/labstore/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// LookupSeparator joins a relation name and a column in search fields,
// e.g. "director__full_name".
const LookupSeparator = "__"

// ModelAdmin is the admin configuration of one entity.
type ModelAdmin struct {
	// Name is the registry key, e.g. "movie".
	Name  string
	Table string

	ListDisplay    []string
	ListFilter     []string
	SearchFields   []string
	ReadonlyFields []string
	SearchHelpText string

	// Ordering of the change list; defaults to "<table>.id ASC".
	Ordering []string
}

// IsReadonly reports whether field may not be edited from the panel.
func (m ModelAdmin) IsReadonly(field string) bool {
	for _, f := range m.ReadonlyFields {
		if f == field {
			return true
		}
	}
	return false
}

func (m ModelAdmin) canFilter(field string) bool {
	for _, f := range m.ListFilter {
		if f == field {
			return true
		}
	}
	return false
}

// Site is a registry of ModelAdmins.
type Site struct {
	models map[string]ModelAdmin
}

// NewSite creates an empty Site.
func NewSite() *Site {
	return &Site{models: map[string]ModelAdmin{}}
}

// Register adds configurations to the site. Names must be unique.
func (s *Site) Register(admins ...ModelAdmin) error {
	for _, m := range admins {
		if m.Name == "" || m.Table == "" {
			return fmt.Errorf("admin: name and table are required")
		}
		if _, dup := s.models[m.Name]; dup {
			return fmt.Errorf("admin: %q is already registered", m.Name)
		}
		s.models[m.Name] = m
	}
	return nil
}

// Get returns the configuration registered under name.
func (s *Site) Get(name string) (ModelAdmin, bool) {
	m, ok := s.models[name]
	return m, ok
}

// Names lists the registered configurations alphabetically.
func (s *Site) Names() []string {
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ChangeList builds the listing query of the named entity.
//
// Every whitespace separated word of search must match at least one
// search field. filters may only use ListFilter fields and are matched by
// equality. Relation lookups ("director__full_name") join the referenced
// table through the registered relations.
func (s *Site) ChangeList(name, search string, filters map[string]any) (sq.SelectBuilder, error) {
	m, ok := s.models[name]
	if !ok {
		return sq.SelectBuilder{}, fmt.Errorf("admin: %q is not registered", name)
	}

	joins := map[string]string{}
	var joinOrder []string

	resolve := func(field string) (string, error) {
		rel, column, found := strings.Cut(field, LookupSeparator)
		if !found {
			return m.Table + "." + field, nil
		}

		relation, ok := database.LookupRelation(m.Table, rel)
		if !ok {
			return "", fmt.Errorf("admin: %s has no relation %q", m.Table, rel)
		}

		if _, seen := joins[rel]; !seen {
			joins[rel] = fmt.Sprintf("%s %s ON %s.id = %s.%s",
				relation.References, rel, rel, m.Table, relation.Column)
			joinOrder = append(joinOrder, rel)
		}
		return rel + "." + column, nil
	}

	columns := []string{m.Table + ".id"}
	for _, field := range m.ListDisplay {
		if relation, ok := database.LookupRelation(m.Table, field); ok {
			columns = append(columns, fmt.Sprintf("%s.%s AS %s", m.Table, relation.Column, field))
			continue
		}
		columns = append(columns, m.Table+"."+field)
	}

	b := query.Psql.Select(columns...).From(m.Table)

	if terms := strings.Fields(search); len(terms) > 0 && len(m.SearchFields) > 0 {
		for _, term := range terms {
			or := sq.Or{}
			for _, field := range m.SearchFields {
				column, err := resolve(field)
				if err != nil {
					return sq.SelectBuilder{}, err
				}
				or = append(or, query.Contains(column, term))
			}
			b = b.Where(or)
		}
	}

	keys := make([]string, 0, len(filters))
	for field := range filters {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	for _, field := range keys {
		if !m.canFilter(field) {
			return sq.SelectBuilder{}, fmt.Errorf("admin: %s cannot be filtered by %q", m.Name, field)
		}
		b = b.Where(sq.Eq{m.Table + "." + field: filters[field]})
	}

	for _, rel := range joinOrder {
		b = b.LeftJoin(joins[rel])
	}

	ordering := m.Ordering
	if len(ordering) == 0 {
		ordering = []string{m.Table + ".id ASC"}
	}

	return b.OrderBy(ordering...), nil
}

// List runs ChangeList and returns each row as a column -> value map.
func (s *Site) List(ctx context.Context, db database.DBTX, name, search string, filters map[string]any) ([]map[string]any, error) {
	b, err := s.ChangeList(name, search, filters)
	if err != nil {
		return nil, err
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building change list")
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrapf(sqlerr.HandleError(err), "listing %s", name)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, errors.Wrapf(sqlerr.HandleError(err), "listing %s", name)
	}
	return items, nil
}
