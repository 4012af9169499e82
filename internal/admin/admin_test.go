package admin

import (
	"sync"
	"testing"

	"github.com/deppfellow/labstore/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registerRelations sync.Once

func movieAdmin() ModelAdmin {
	return ModelAdmin{
		Name:           "movie",
		Table:          "movies",
		ListDisplay:    []string{"title", "storyline", "rating", "director"},
		ListFilter:     []string{"is_awarded", "is_classic", "genre"},
		SearchFields:   []string{"title", "director__full_name"},
		ReadonlyFields: []string{"last_updated"},
		SearchHelpText: "Search by title or director's full name",
	}
}

func newTestSite(t *testing.T) *Site {
	t.Helper()

	registerRelations.Do(func() {
		database.RegisterRelations(database.Relation{
			Table:      "movies",
			Column:     "director_id",
			References: "directors",
			OnDelete:   database.OnDeleteCascade,
		})
	})

	site := NewSite()
	require.NoError(t, site.Register(movieAdmin(), ModelAdmin{
		Name:         "director",
		Table:        "directors",
		ListDisplay:  []string{"full_name", "birth_date", "nationality"},
		ListFilter:   []string{"years_of_experience"},
		SearchFields: []string{"full_name", "nationality"},
	}))
	return site
}

func TestSite_ChangeList(t *testing.T) {
	site := newTestSite(t)

	b, err := site.ChangeList("movie", "Dark  knight", map[string]any{"genre": "Drama"})
	require.NoError(t, err)

	sql, args, err := b.ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT movies.id, movies.title, movies.storyline, movies.rating, movies.director_id AS director "+
			"FROM movies LEFT JOIN directors director ON director.id = movies.director_id "+
			"WHERE (movies.title ILIKE $1 OR director.full_name ILIKE $2) "+
			"AND (movies.title ILIKE $3 OR director.full_name ILIKE $4) "+
			"AND movies.genre = $5 ORDER BY movies.id ASC",
		sql)
	assert.Equal(t, []any{"%Dark%", "%Dark%", "%knight%", "%knight%", "Drama"}, args)
}

func TestSite_ChangeList_NoSearch(t *testing.T) {
	site := newTestSite(t)

	b, err := site.ChangeList("director", "   ", nil)
	require.NoError(t, err)

	sql, args, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT directors.id, directors.full_name, directors.birth_date, directors.nationality "+
			"FROM directors ORDER BY directors.id ASC",
		sql)
	assert.Empty(t, args)
}

func TestSite_ChangeList_Errors(t *testing.T) {
	site := newTestSite(t)

	_, err := site.ChangeList("spaceship", "", nil)
	assert.ErrorContains(t, err, "not registered")

	_, err = site.ChangeList("director", "", map[string]any{"nationality": "Bulgarian"})
	assert.ErrorContains(t, err, "cannot be filtered")

	assert.ErrorContains(t, site.Register(movieAdmin()), "already registered")
	assert.Error(t, site.Register(ModelAdmin{Name: "nameless"}))
}

func TestModelAdmin_IsReadonly(t *testing.T) {
	m := movieAdmin()
	assert.True(t, m.IsReadonly("last_updated"))
	assert.False(t, m.IsReadonly("title"))
}

func TestSite_Names(t *testing.T) {
	assert.Equal(t, []string{"director", "movie"}, newTestSite(t).Names())
}
