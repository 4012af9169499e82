package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model/cinema"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type CinemaRepository struct {
	db database.DBTX
}

func NewCinemaRepository(db database.DBTX) *CinemaRepository {
	return &CinemaRepository{db: db}
}

// InTx runs fn with a repository bound to one transaction.
func (r *CinemaRepository) InTx(ctx context.Context, fn func(repo *CinemaRepository) error) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&CinemaRepository{db: tx})
	})
}

func (r *CinemaRepository) CreateDirector(ctx context.Context, d *cinema.Director) error {
	id, err := insert(ctx, r.db, "directors", query.Psql.Insert("directors").
		Columns("full_name", "birth_date", "nationality", "years_of_experience").
		Values(d.FullName, d.BirthDate, d.Nationality, d.YearsOfExperience))
	if err != nil {
		return errors.Wrap(err, "creating director")
	}

	d.ID = id
	return nil
}

func (r *CinemaRepository) CreateActor(ctx context.Context, a *cinema.Actor) error {
	id, err := insert(ctx, r.db, "actors", query.Psql.Insert("actors").
		Columns("full_name", "birth_date", "nationality", "is_awarded").
		Values(a.FullName, a.BirthDate, a.Nationality, a.IsAwarded))
	if err != nil {
		return errors.Wrap(err, "creating actor")
	}

	a.ID = id
	return nil
}

func (r *CinemaRepository) CreateMovie(ctx context.Context, m *cinema.Movie) error {
	id, err := insert(ctx, r.db, "movies", query.Psql.Insert("movies").
		Columns("title", "release_date", "storyline", "genre", "rating", "is_classic", "is_awarded", "director_id", "starring_actor_id").
		Values(m.Title, m.ReleaseDate, nullable(m.Storyline), m.Genre, m.Rating, m.IsClassic, m.IsAwarded, m.DirectorID, m.StarringActorID))
	if err != nil {
		return errors.Wrap(err, "creating movie")
	}

	m.ID = id
	return nil
}

// AddCast links actors to a movie. Actors already in the cast are skipped.
func (r *CinemaRepository) AddCast(ctx context.Context, movieID int64, actorIDs ...int64) error {
	if len(actorIDs) == 0 {
		return nil
	}

	b := query.Psql.Insert("movie_actors").Columns("movie_id", "actor_id")
	for _, actorID := range actorIDs {
		b = b.Values(movieID, actorID)
	}

	_, err := exec(ctx, r.db, "movie_actors", b.Suffix("ON CONFLICT DO NOTHING"))
	return errors.Wrap(err, "adding cast")
}

// Directors lists the directors matching pred ordered by full name.
func (r *CinemaRepository) Directors(ctx context.Context, pred sq.Sqlizer) ([]cinema.Director, error) {
	b := query.Psql.Select("id", "full_name", "birth_date", "nationality", "years_of_experience").
		From("directors").
		Where(pred).
		OrderBy("full_name ASC")

	items, err := selectAll(ctx, r.db, "directors", b, func(row pgx.CollectableRow) (cinema.Director, error) {
		var d cinema.Director
		err := row.Scan(&d.ID, &d.FullName, &d.BirthDate, &d.Nationality, &d.YearsOfExperience)
		return d, err
	})
	return items, errors.Wrap(err, "listing directors")
}

// TopDirector is the director with the most movies, ties broken by name.
func (r *CinemaRepository) TopDirector(ctx context.Context) (cinema.RankedDirector, bool, error) {
	b := query.RankByCount(query.Rank{
		From:     "directors d",
		Key:      "d.id",
		Join:     "movies m ON m.director_id = d.id",
		Counted:  "m.id",
		As:       "movies_count",
		TieBreak: "d.full_name",
	}, "d.full_name")

	item, ok, err := selectFirst(ctx, r.db, "directors", b, func(row pgx.CollectableRow) (cinema.RankedDirector, error) {
		var d cinema.RankedDirector
		err := row.Scan(&d.FullName, &d.MoviesCount)
		return d, err
	})
	return item, ok, errors.Wrap(err, "ranking directors")
}

// TopActor is the actor starring in the most movies, ties broken by name,
// with the average rating of those movies and their titles.
func (r *CinemaRepository) TopActor(ctx context.Context) (cinema.TopActor, bool, error) {
	b := query.RankByCount(query.Rank{
		From:     "actors a",
		Key:      "a.id",
		Join:     "movies m ON m.starring_actor_id = a.id",
		Counted:  "m.id",
		As:       "starring_count",
		TieBreak: "a.full_name",
	}, "a.id", "a.full_name", "COALESCE(AVG(m.rating), 0) AS average_rating")

	actor, ok, err := selectFirst(ctx, r.db, "actors", b, func(row pgx.CollectableRow) (cinema.TopActor, error) {
		var a cinema.TopActor
		err := row.Scan(&a.ID, &a.FullName, &a.AverageRating, &a.StarringCount)
		return a, err
	})
	if err != nil || !ok || actor.StarringCount == 0 {
		return actor, ok, errors.Wrap(err, "ranking actors")
	}

	actor.Movies, err = selectAll(ctx, r.db, "movies", query.Psql.Select("title").
		From("movies").
		Where(sq.Eq{"starring_actor_id": actor.ID}).
		OrderBy("title ASC"), scanString)
	if err != nil {
		return actor, false, errors.Wrap(err, "listing starring movies")
	}
	return actor, true, nil
}

// ActorsByMoviesCount ranks actors by the number of casts they are in.
func (r *CinemaRepository) ActorsByMoviesCount(ctx context.Context, limit uint64) ([]cinema.RankedActor, error) {
	b := query.RankByCount(query.Rank{
		From:     "actors a",
		Key:      "a.id",
		Join:     "movie_actors ma ON ma.actor_id = a.id",
		Counted:  "ma.movie_id",
		As:       "movies_count",
		TieBreak: "a.full_name",
	}, "a.full_name").Limit(limit)

	items, err := selectAll(ctx, r.db, "actors", b, func(row pgx.CollectableRow) (cinema.RankedActor, error) {
		var a cinema.RankedActor
		err := row.Scan(&a.FullName, &a.MoviesCount)
		return a, err
	})
	return items, errors.Wrap(err, "ranking actors by casts")
}

// TopRatedAwardedMovie is the highest rated awarded movie, ties broken by
// title, with its starring actor ("" when unset) and cast.
func (r *CinemaRepository) TopRatedAwardedMovie(ctx context.Context) (cinema.AwardedMovie, bool, error) {
	b := query.Psql.Select("m.id", "m.title", "m.rating", "COALESCE(a.full_name, '')").
		From("movies m").
		LeftJoin("actors a ON a.id = m.starring_actor_id").
		Where(sq.Eq{"m.is_awarded": true}).
		OrderBy("m.rating DESC", "m.title ASC")

	movie, ok, err := selectFirst(ctx, r.db, "movies", b, func(row pgx.CollectableRow) (cinema.AwardedMovie, error) {
		var m cinema.AwardedMovie
		err := row.Scan(&m.ID, &m.Title, &m.Rating, &m.StarringActor)
		return m, err
	})
	if err != nil || !ok {
		return movie, ok, errors.Wrap(err, "loading top rated awarded movie")
	}

	movie.Cast, err = selectAll(ctx, r.db, "movie_actors", query.Psql.Select("a.full_name").
		From("movie_actors ma").
		Join("actors a ON a.id = ma.actor_id").
		Where(sq.Eq{"ma.movie_id": movie.ID}).
		OrderBy("a.full_name ASC"), scanString)
	if err != nil {
		return movie, false, errors.Wrap(err, "listing cast")
	}
	return movie, true, nil
}

// IncreaseClassicRatings adds step to the rating of every classic movie
// still below the maximum, in one statement.
func (r *CinemaRepository) IncreaseClassicRatings(ctx context.Context, step decimal.Decimal) (int64, error) {
	n, err := exec(ctx, r.db, "movies", query.Psql.Update("movies").
		Set("rating", sq.Expr("rating + ?", step)).
		Where(sq.Eq{"is_classic": true}).
		Where(sq.Lt{"rating": cinema.MaxRating}))
	return n, errors.Wrap(err, "increasing ratings")
}
