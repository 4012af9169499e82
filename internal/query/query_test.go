package query

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%Nolan%", ContainsPattern("Nolan"))
	assert.Equal(t, `%50\%\_off\\%`, ContainsPattern(`50%_off\`))
}

func TestAnyContains(t *testing.T) {
	sql, args, err := Psql.Select("name").
		From("astronauts").
		Where(AnyContains("Iv", "name", "phone_number")).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT name FROM astronauts WHERE (name ILIKE $1 OR phone_number ILIKE $2)", sql)
	assert.Equal(t, []any{"%Iv%", "%Iv%"}, args)
}

func TestAllContains(t *testing.T) {
	name := "Rafa"

	_, ok := AllContains(Filter{Column: "full_name"}, Filter{Column: "country"})
	assert.False(t, ok, "no supplied filter means no query")

	pred, ok := AllContains(Filter{Column: "full_name", Value: &name}, Filter{Column: "country"})
	require.True(t, ok)

	sql, args, err := pred.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(full_name ILIKE ?)", sql)
	assert.Equal(t, []any{"%Rafa%"}, args)
}

func TestRankByCount(t *testing.T) {
	sql, args, err := RankByCount(Rank{
		From:     "directors d",
		Key:      "d.id",
		Join:     "movies m ON m.director_id = d.id",
		Counted:  "m.id",
		As:       "movies_count",
		TieBreak: "d.full_name",
	}, "d.full_name").Limit(1).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT d.full_name, COUNT(m.id) AS movies_count FROM directors d "+
			"LEFT JOIN movies m ON m.director_id = d.id GROUP BY d.id "+
			"ORDER BY movies_count DESC, d.full_name ASC LIMIT 1",
		sql)
	assert.Empty(t, args)
}

func TestTaken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT EXISTS\( SELECT 1 FROM books WHERE isbn = \$1 \)`).
		WithArgs("978-0132").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	id := int64(4)
	mock.ExpectQuery(`SELECT EXISTS\( SELECT 1 FROM books WHERE isbn = \$1 AND id <> \$2 \)`).
		WithArgs("978-0132", id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := Taken(context.Background(), mock, "books", "isbn", "978-0132", nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = Taken(context.Background(), mock, "books", "isbn", "978-0132", &id)
	require.NoError(t, err)
	assert.False(t, taken)

	assert.NoError(t, mock.ExpectationsWereMet())
}
