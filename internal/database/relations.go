package database

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// OnDelete is what the store does to dependent rows when the referenced
// row is deleted.
type OnDelete string

const (
	// OnDeleteCascade removes the dependent rows.
	OnDeleteCascade OnDelete = "CASCADE"

	// OnDeleteSetNull clears the foreign key and keeps the dependent rows.
	OnDeleteSetNull OnDelete = "SET NULL"

	// OnDeleteRestrict refuses to delete a row that is still referenced.
	OnDeleteRestrict OnDelete = "RESTRICT"
)

// Relation describes one foreign key: Table.Column references
// References(ReferencesColumn) with the given delete policy.
// ReferencesColumn defaults to "id".
//
// Relations are declared in the migrations; the registry mirrors them so
// code (admin lookups, tests) can reason about them without parsing SQL.
type Relation struct {
	Table      string
	Column     string
	References string
	OnDelete   OnDelete

	ReferencesColumn string
}

// Name is the lookup name of the relation: the column without its "_id" suffix.
func (r Relation) Name() string {
	return strings.TrimSuffix(r.Column, "_id")
}

// Clause renders the REFERENCES clause as it appears in the migrations.
func (r Relation) Clause() string {
	column := r.ReferencesColumn
	if column == "" {
		column = "id"
	}
	return fmt.Sprintf("REFERENCES %s (%s) ON DELETE %s", r.References, column, r.OnDelete)
}

var (
	relationsMu sync.RWMutex
	relations   = map[string]Relation{}
)

func relationKey(table, column string) string {
	return table + "." + column
}

// RegisterRelations adds relations to the registry. Entity packages call
// it from init. Registering the same table column twice panics.
func RegisterRelations(rels ...Relation) {
	relationsMu.Lock()
	defer relationsMu.Unlock()

	for _, r := range rels {
		key := relationKey(r.Table, r.Column)
		if _, dup := relations[key]; dup {
			panic("database: relation registered twice: " + key)
		}
		relations[key] = r
	}
}

// Relations returns every registered relation ordered by table and column.
func Relations() []Relation {
	relationsMu.RLock()
	defer relationsMu.RUnlock()

	out := make([]Relation, 0, len(relations))
	for _, r := range relations {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Table != out[j].Table {
			return out[i].Table < out[j].Table
		}
		return out[i].Column < out[j].Column
	})
	return out
}

// LookupRelation finds the relation on table whose Name is name
// ("director" on movies finds movies.director_id).
func LookupRelation(table, name string) (Relation, bool) {
	relationsMu.RLock()
	defer relationsMu.RUnlock()

	r, ok := relations[relationKey(table, name+"_id")]
	return r, ok
}
