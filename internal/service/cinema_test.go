package service

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCinemaService_GetDirectors(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewCinemaService(repos.Cinema, nil)

	out, err := svc.GetDirectors(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	nationality := "british"
	mock.ExpectQuery(`FROM directors WHERE \(nationality ILIKE \$1\) ORDER BY full_name ASC`).
		WithArgs("%british%").
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name", "birth_date", "nationality", "years_of_experience"}).
			AddRow(int64(1), "Christopher Nolan", time.Date(1970, 7, 30, 0, 0, 0, 0, time.UTC), "British", 25))

	out, err = svc.GetDirectors(context.Background(), nil, &nationality)
	require.NoError(t, err)
	assert.Equal(t, "Director: Christopher Nolan, nationality: British, experience: 25", out)
}

func TestCinemaService_GetTopDirector(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewCinemaService(repos.Cinema, nil)

	columns := []string{"full_name", "movies_count"}
	mock.ExpectQuery(`FROM directors d LEFT JOIN movies m ON m.director_id = d.id GROUP BY d.id ORDER BY movies_count DESC, d.full_name ASC LIMIT 1`).
		WillReturnRows(pgxmock.NewRows(columns).AddRow("Ava DuVernay", 0))
	mock.ExpectQuery(`FROM directors d`).
		WillReturnRows(pgxmock.NewRows(columns).AddRow("Christopher Nolan", 3))

	out, err := svc.GetTopDirector(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out, "a director without movies is no top director")

	out, err = svc.GetTopDirector(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Top Director: Christopher Nolan, movies: 3.", out)
}

func TestCinemaService_GetTopActor(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewCinemaService(repos.Cinema, nil)

	mock.ExpectQuery(`FROM actors a LEFT JOIN movies m ON m.starring_actor_id = a.id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name", "average_rating", "starring_count"}).
			AddRow(int64(4), "Cillian Murphy", decimal.RequireFromString("8.65"), 2))
	mock.ExpectQuery(`SELECT title FROM movies WHERE starring_actor_id = \$1 ORDER BY title ASC`).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"title"}).AddRow("Inception").AddRow("Oppenheimer"))

	out, err := svc.GetTopActor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Top Actor: Cillian Murphy, starring in movies: Inception, Oppenheimer, movies average rating: 8.7", out)
}

func TestCinemaService_GetActorsByMoviesCount(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewCinemaService(repos.Cinema, nil)

	mock.ExpectQuery(`FROM actors a LEFT JOIN movie_actors ma ON ma.actor_id = a.id .* LIMIT 3`).
		WillReturnRows(pgxmock.NewRows([]string{"full_name", "movies_count"}).
			AddRow("Cillian Murphy", 3).
			AddRow("Emily Blunt", 1).
			AddRow("Matt Damon", 0))

	out, err := svc.GetActorsByMoviesCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t,
		"Cillian Murphy, participated in 3 movies\n"+
			"Emily Blunt, participated in 1 movies\n"+
			"Matt Damon, participated in 0 movies",
		out)
}

func TestCinemaService_GetTopRatedAwardedMovie_WithoutStarringActor(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewCinemaService(repos.Cinema, nil)

	mock.ExpectQuery(`FROM movies m LEFT JOIN actors a ON a.id = m.starring_actor_id WHERE m.is_awarded = \$1`).
		WithArgs(true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "rating", "starring"}).
			AddRow(int64(9), "Oppenheimer", decimal.RequireFromString("9.1"), ""))
	mock.ExpectQuery(`FROM movie_actors ma JOIN actors a ON a.id = ma.actor_id WHERE ma.movie_id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"full_name"}).AddRow("Emily Blunt"))

	out, err := svc.GetTopRatedAwardedMovie(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Top rated awarded movie: Oppenheimer, rating: 9.1. Starring actor: N/A. Cast: Emily Blunt.", out)
}

func TestCinemaService_IncreaseRating(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewCinemaService(repos.Cinema, nil)

	mock.ExpectExec(`UPDATE movies SET rating = rating \+ \$1 WHERE is_classic = \$2 AND rating < \$3`).
		WithArgs(pgxmock.AnyArg(), true, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`UPDATE movies SET rating`).
		WithArgs(pgxmock.AnyArg(), true, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	out, err := svc.IncreaseRating(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No ratings increased.", out)

	out, err = svc.IncreaseRating(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Rating increased for 2 movies.", out)
}
