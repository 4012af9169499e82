package database_test

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/deppfellow/labstore/internal/config"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/deppfellow/labstore/internal/model/academy"
	_ "github.com/deppfellow/labstore/internal/model/accounts"
	_ "github.com/deppfellow/labstore/internal/model/cinema"
	_ "github.com/deppfellow/labstore/internal/model/commerce"
	_ "github.com/deppfellow/labstore/internal/model/media"
	_ "github.com/deppfellow/labstore/internal/model/publishing"
	_ "github.com/deppfellow/labstore/internal/model/records"
	_ "github.com/deppfellow/labstore/internal/model/space"
	_ "github.com/deppfellow/labstore/internal/model/tennis"
)

// tableColumns maps every table created by the migrations to its column
// definition lines.
func tableColumns(t *testing.T) map[string][]string {
	t.Helper()

	migrations, err := database.Migrations()
	require.NoError(t, err)

	tables := map[string][]string{}
	err = fs.WalkDir(migrations, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return err
		}

		raw, err := fs.ReadFile(migrations, path)
		if err != nil {
			return err
		}

		var current string
		for _, line := range strings.Split(string(raw), "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "CREATE TABLE "):
				current = strings.Fields(line)[2]
			case strings.HasPrefix(line, ");"):
				current = ""
			case current != "":
				tables[current] = append(tables[current], line)
			}
		}
		return nil
	})
	require.NoError(t, err)
	return tables
}

func TestRelations_MatchMigrations(t *testing.T) {
	tables := tableColumns(t)

	relations := database.Relations()
	require.NotEmpty(t, relations)

	for _, r := range relations {
		columns, ok := tables[r.Table]
		require.True(t, ok, "table %s is not created by any migration", r.Table)

		found := false
		for _, line := range columns {
			if strings.HasPrefix(line, r.Column+" ") && strings.Contains(line, r.Clause()) {
				found = true
				break
			}
		}
		assert.True(t, found, "%s.%s: migrations do not declare %q", r.Table, r.Column, r.Clause())
	}
}

func TestLookupRelation(t *testing.T) {
	r, ok := database.LookupRelation("movies", "director")
	require.True(t, ok)
	assert.Equal(t, "directors", r.References)
	assert.Equal(t, database.OnDeleteCascade, r.OnDelete)

	r, ok = database.LookupRelation("subjects", "lecturer")
	require.True(t, ok)
	assert.Equal(t, database.OnDeleteSetNull, r.OnDelete)

	_, ok = database.LookupRelation("movies", "studio")
	assert.False(t, ok)
}

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "::1",
		Port:     5432,
		User:     "labstore",
		Password: "pa:ss@word",
		Name:     "labstore",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://labstore:pa%3Ass%40word@[::1]:5432/labstore?sslmode=disable", database.DSN(cfg))
}

func TestInTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM users`).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err = database.InTx(context.Background(), mock, func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(), "DELETE FROM users")
		return err
	})
	require.NoError(t, err)

	failed := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err = database.InTx(context.Background(), mock, func(pgx.Tx) error { return failed })
	assert.ErrorIs(t, err, failed)

	assert.NoError(t, mock.ExpectationsWereMet())
}
