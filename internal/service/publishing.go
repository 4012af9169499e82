package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/model/publishing"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/validation"
)

// NoAuthorsBanned is the result of BanAuthor when nobody was banned.
const NoAuthorsBanned = "No authors banned."

type PublishingService struct {
	repo     *repository.PublishingRepository
	observer *logger.Observer
}

func NewPublishingService(repo *repository.PublishingRepository, observer *logger.Observer) *PublishingService {
	return &PublishingService{repo: repo, observer: observer}
}

func (s *PublishingService) CreateAuthor(ctx context.Context, a *publishing.Author) error {
	return logger.Run(ctx, s.observer, "create_author", func(ctx context.Context) error {
		taken, err := unique(ctx, s.repo.AuthorEmailTaken, a.Email, "email", "Author with this email already exists.")
		if err != nil {
			return err
		}
		if err := validation.Merge(validation.Check(a), taken...); err != nil {
			return err
		}
		return s.repo.CreateAuthor(ctx, a)
	})
}

// CreateArticle stores an article and credits its authors in one transaction.
func (s *PublishingService) CreateArticle(ctx context.Context, a *publishing.Article, authorIDs ...int64) error {
	return logger.Run(ctx, s.observer, "create_article", func(ctx context.Context) error {
		a.ApplyDefaults()
		if err := validation.Check(a); err != nil {
			return err
		}
		return s.repo.InTx(ctx, func(repo *repository.PublishingRepository) error {
			return repo.CreateArticle(ctx, a, authorIDs...)
		})
	})
}

func (s *PublishingService) CreateReview(ctx context.Context, r *publishing.Review) error {
	return logger.Run(ctx, s.observer, "create_review", func(ctx context.Context) error {
		if err := validation.Check(r); err != nil {
			return err
		}
		return s.repo.CreateReview(ctx, r)
	})
}

// GetAuthors lists authors whose name and email contain the given values,
// by name descending. Both nil returns "".
func (s *PublishingService) GetAuthors(ctx context.Context, name, email *string) (string, error) {
	return logger.Observe(ctx, s.observer, "get_authors", func(ctx context.Context) (string, error) {
		pred, ok := query.AllContains(
			query.Filter{Column: "full_name", Value: name},
			query.Filter{Column: "email", Value: email},
		)
		if !ok {
			return "", nil
		}

		authors, err := s.repo.Authors(ctx, pred)
		if err != nil {
			return "", err
		}

		return lines(authors, func(a publishing.Author) string {
			return fmt.Sprintf("Author: %s, email: %s, status: %s", a.FullName, a.Email, a.Status())
		}), nil
	})
}

func (s *PublishingService) GetTopPublisher(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_top_publisher", func(ctx context.Context) (string, error) {
		author, ok, err := s.repo.TopPublisher(ctx)
		if err != nil || !ok || author.Count == 0 {
			return "", err
		}
		return fmt.Sprintf("Top Author: %s with %d published articles.", author.FullName, author.Count), nil
	})
}

func (s *PublishingService) GetTopReviewer(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_top_reviewer", func(ctx context.Context) (string, error) {
		author, ok, err := s.repo.TopReviewer(ctx)
		if err != nil || !ok || author.Count == 0 {
			return "", err
		}
		return fmt.Sprintf("Top Reviewer: %s with %d published reviews.", author.FullName, author.Count), nil
	})
}

func (s *PublishingService) GetLatestArticle(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_latest_article", func(ctx context.Context) (string, error) {
		article, ok, err := s.repo.LatestArticle(ctx)
		if err != nil || !ok {
			return "", err
		}
		return fmt.Sprintf("The latest article is: %s. Authors: %s. Reviewed: %d times. Average Rating: %.2f.",
			article.Title, strings.Join(article.Authors, ", "), article.TimesReviewed, article.AverageRating), nil
	})
}

func (s *PublishingService) GetTopRatedArticle(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_top_rated_article", func(ctx context.Context) (string, error) {
		article, ok, err := s.repo.TopRatedArticle(ctx)
		if err != nil || !ok || article.TimesReviewed == 0 {
			return "", err
		}
		return fmt.Sprintf("The top-rated article is: %s, with an average rating of %.2f, reviewed %d times.",
			article.Title, article.AverageRating, article.TimesReviewed), nil
	})
}

// BanAuthor bans the author with exactly this email and deletes their
// reviews, in one transaction.
func (s *PublishingService) BanAuthor(ctx context.Context, email *string) (string, error) {
	return logger.Observe(ctx, s.observer, "ban_author", func(ctx context.Context) (string, error) {
		if email == nil {
			return NoAuthorsBanned, nil
		}

		result := NoAuthorsBanned
		err := s.repo.InTx(ctx, func(repo *repository.PublishingRepository) error {
			author, ok, err := repo.AuthorByEmail(ctx, *email)
			if err != nil || !ok {
				return err
			}

			deleted, err := repo.DeleteReviewsBy(ctx, author.ID)
			if err != nil {
				return err
			}
			if err := repo.SetBanned(ctx, author.ID, true); err != nil {
				return err
			}

			result = fmt.Sprintf("Author: %s is banned! %d reviews deleted.", author.FullName, deleted)
			return nil
		})
		if err != nil {
			return "", err
		}
		return result, nil
	})
}
