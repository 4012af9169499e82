package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/model/cinema"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/validation"
)

// topActorsLimit is how many actors GetActorsByMoviesCount lists.
const topActorsLimit = 3

type CinemaService struct {
	repo     *repository.CinemaRepository
	observer *logger.Observer
}

func NewCinemaService(repo *repository.CinemaRepository, observer *logger.Observer) *CinemaService {
	return &CinemaService{repo: repo, observer: observer}
}

func (s *CinemaService) CreateDirector(ctx context.Context, d *cinema.Director) error {
	return logger.Run(ctx, s.observer, "create_director", func(ctx context.Context) error {
		d.ApplyDefaults()
		if err := validation.Check(d); err != nil {
			return err
		}
		return s.repo.CreateDirector(ctx, d)
	})
}

func (s *CinemaService) CreateActor(ctx context.Context, a *cinema.Actor) error {
	return logger.Run(ctx, s.observer, "create_actor", func(ctx context.Context) error {
		a.ApplyDefaults()
		if err := validation.Check(a); err != nil {
			return err
		}
		return s.repo.CreateActor(ctx, a)
	})
}

// CreateMovie stores a movie and links its cast in one transaction.
func (s *CinemaService) CreateMovie(ctx context.Context, m *cinema.Movie, castIDs ...int64) error {
	return logger.Run(ctx, s.observer, "create_movie", func(ctx context.Context) error {
		m.ApplyDefaults()
		if err := validation.Check(m); err != nil {
			return err
		}
		return s.repo.InTx(ctx, func(repo *repository.CinemaRepository) error {
			if err := repo.CreateMovie(ctx, m); err != nil {
				return err
			}
			return repo.AddCast(ctx, m.ID, castIDs...)
		})
	})
}

func (s *CinemaService) AddCast(ctx context.Context, movieID int64, actorIDs ...int64) error {
	return logger.Run(ctx, s.observer, "add_cast", func(ctx context.Context) error {
		return s.repo.AddCast(ctx, movieID, actorIDs...)
	})
}

// GetDirectors lists directors whose name and nationality contain the
// given values. Both nil returns "".
func (s *CinemaService) GetDirectors(ctx context.Context, name, nationality *string) (string, error) {
	return logger.Observe(ctx, s.observer, "get_directors", func(ctx context.Context) (string, error) {
		pred, ok := query.AllContains(
			query.Filter{Column: "full_name", Value: name},
			query.Filter{Column: "nationality", Value: nationality},
		)
		if !ok {
			return "", nil
		}

		directors, err := s.repo.Directors(ctx, pred)
		if err != nil {
			return "", err
		}

		return lines(directors, func(d cinema.Director) string {
			return fmt.Sprintf("Director: %s, nationality: %s, experience: %d", d.FullName, d.Nationality, d.YearsOfExperience)
		}), nil
	})
}

func (s *CinemaService) GetTopDirector(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_top_director", func(ctx context.Context) (string, error) {
		director, ok, err := s.repo.TopDirector(ctx)
		if err != nil || !ok || director.MoviesCount == 0 {
			return "", err
		}
		return fmt.Sprintf("Top Director: %s, movies: %d.", director.FullName, director.MoviesCount), nil
	})
}

func (s *CinemaService) GetTopActor(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_top_actor", func(ctx context.Context) (string, error) {
		actor, ok, err := s.repo.TopActor(ctx)
		if err != nil || !ok || actor.StarringCount == 0 {
			return "", err
		}
		return fmt.Sprintf("Top Actor: %s, starring in movies: %s, movies average rating: %s",
			actor.FullName, strings.Join(actor.Movies, ", "), actor.AverageRating.StringFixed(1)), nil
	})
}

func (s *CinemaService) GetActorsByMoviesCount(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_actors_by_movies_count", func(ctx context.Context) (string, error) {
		actors, err := s.repo.ActorsByMoviesCount(ctx, topActorsLimit)
		if err != nil || len(actors) == 0 || actors[0].MoviesCount == 0 {
			return "", err
		}

		return lines(actors, func(a cinema.RankedActor) string {
			return fmt.Sprintf("%s, participated in %d movies", a.FullName, a.MoviesCount)
		}), nil
	})
}

func (s *CinemaService) GetTopRatedAwardedMovie(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_top_rated_awarded_movie", func(ctx context.Context) (string, error) {
		movie, ok, err := s.repo.TopRatedAwardedMovie(ctx)
		if err != nil || !ok {
			return "", err
		}

		starring := movie.StarringActor
		if starring == "" {
			starring = cinema.StarringFallback
		}

		return fmt.Sprintf("Top rated awarded movie: %s, rating: %s. Starring actor: %s. Cast: %s.",
			movie.Title, movie.Rating.StringFixed(1), starring, strings.Join(movie.Cast, ", ")), nil
	})
}

// IncreaseRating bumps the rating of every classic movie below the
// maximum by RatingStep in a single statement.
func (s *CinemaService) IncreaseRating(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "increase_rating", func(ctx context.Context) (string, error) {
		n, err := s.repo.IncreaseClassicRatings(ctx, cinema.RatingStep)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "No ratings increased.", nil
		}
		return fmt.Sprintf("Rating increased for %d movies.", n), nil
	})
}
