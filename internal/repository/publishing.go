package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model/publishing"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type PublishingRepository struct {
	db database.DBTX
}

func NewPublishingRepository(db database.DBTX) *PublishingRepository {
	return &PublishingRepository{db: db}
}

// InTx runs fn with a repository bound to one transaction.
func (r *PublishingRepository) InTx(ctx context.Context, fn func(repo *PublishingRepository) error) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&PublishingRepository{db: tx})
	})
}

func (r *PublishingRepository) CreateAuthor(ctx context.Context, a *publishing.Author) error {
	id, err := insert(ctx, r.db, "authors", query.Psql.Insert("authors").
		Columns("full_name", "email", "is_banned", "birth_year", "website").
		Values(a.FullName, a.Email, a.IsBanned, a.BirthYear, nullable(a.Website)))
	if err != nil {
		return errors.Wrap(err, "creating author")
	}

	a.ID = id
	return nil
}

func (r *PublishingRepository) AuthorEmailTaken(ctx context.Context, email string) (bool, error) {
	return query.Taken(ctx, r.db, "authors", "email", email, nil)
}

// CreateArticle inserts the article and links its authors.
func (r *PublishingRepository) CreateArticle(ctx context.Context, a *publishing.Article, authorIDs ...int64) error {
	id, err := insert(ctx, r.db, "articles", query.Psql.Insert("articles").
		Columns("title", "content", "category", "published_on").
		Values(a.Title, a.Content, a.Category, a.PublishedOn))
	if err != nil {
		return errors.Wrap(err, "creating article")
	}
	a.ID = id

	if len(authorIDs) == 0 {
		return nil
	}

	b := query.Psql.Insert("article_authors").Columns("article_id", "author_id")
	for _, authorID := range authorIDs {
		b = b.Values(id, authorID)
	}

	_, err = exec(ctx, r.db, "article_authors", b)
	return errors.Wrap(err, "adding article authors")
}

func (r *PublishingRepository) CreateReview(ctx context.Context, rv *publishing.Review) error {
	id, err := insert(ctx, r.db, "reviews", query.Psql.Insert("reviews").
		Columns("content", "rating", "author_id", "article_id", "published_on").
		Values(rv.Content, rv.Rating, rv.AuthorID, rv.ArticleID, rv.PublishedOn))
	if err != nil {
		return errors.Wrap(err, "creating review")
	}

	rv.ID = id
	return nil
}

func scanAuthor(row pgx.CollectableRow) (publishing.Author, error) {
	var a publishing.Author
	err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.IsBanned, &a.BirthYear, &a.Website)
	return a, err
}

var authorColumns = []string{"id", "full_name", "email", "is_banned", "birth_year", "COALESCE(website, '')"}

// Authors lists the authors matching pred in reverse name order.
func (r *PublishingRepository) Authors(ctx context.Context, pred sq.Sqlizer) ([]publishing.Author, error) {
	b := query.Psql.Select(authorColumns...).
		From("authors").
		Where(pred).
		OrderBy("full_name DESC")

	items, err := selectAll(ctx, r.db, "authors", b, scanAuthor)
	return items, errors.Wrap(err, "listing authors")
}

// AuthorByEmail locks the author with exactly this email.
func (r *PublishingRepository) AuthorByEmail(ctx context.Context, email string) (publishing.Author, bool, error) {
	b := query.Psql.Select(authorColumns...).
		From("authors").
		Where(sq.Eq{"email": email}).
		Suffix("FOR UPDATE")

	item, ok, err := selectFirst(ctx, r.db, "authors", b, scanAuthor)
	return item, ok, errors.Wrap(err, "loading author")
}

func (r *PublishingRepository) topAuthor(ctx context.Context, rank query.Rank) (publishing.RankedAuthor, bool, error) {
	return selectFirst(ctx, r.db, "authors", query.RankByCount(rank, "au.full_name"), func(row pgx.CollectableRow) (publishing.RankedAuthor, error) {
		var a publishing.RankedAuthor
		err := row.Scan(&a.FullName, &a.Count)
		return a, err
	})
}

// TopPublisher is the author of the most articles, ties broken by email.
func (r *PublishingRepository) TopPublisher(ctx context.Context) (publishing.RankedAuthor, bool, error) {
	item, ok, err := r.topAuthor(ctx, query.Rank{
		From:     "authors au",
		Key:      "au.id",
		Join:     "article_authors aa ON aa.author_id = au.id",
		Counted:  "aa.article_id",
		As:       "articles_count",
		TieBreak: "au.email",
	})
	return item, ok, errors.Wrap(err, "ranking authors by articles")
}

// TopReviewer is the author of the most reviews, ties broken by email.
func (r *PublishingRepository) TopReviewer(ctx context.Context) (publishing.RankedAuthor, bool, error) {
	item, ok, err := r.topAuthor(ctx, query.Rank{
		From:     "authors au",
		Key:      "au.id",
		Join:     "reviews r ON r.author_id = au.id",
		Counted:  "r.id",
		As:       "reviews_count",
		TieBreak: "au.email",
	})
	return item, ok, errors.Wrap(err, "ranking authors by reviews")
}

// articleSummary selects articles with their review statistics. An
// article without reviews has an average of zero.
func articleSummary() sq.SelectBuilder {
	return query.Psql.Select("a.id", "a.title", "COUNT(r.id) AS times_reviewed", "COALESCE(AVG(r.rating), 0) AS average_rating").
		From("articles a").
		LeftJoin("reviews r ON r.article_id = a.id").
		GroupBy("a.id")
}

func (r *PublishingRepository) firstArticle(ctx context.Context, b sq.SelectBuilder) (publishing.ArticleSummary, bool, error) {
	article, ok, err := selectFirst(ctx, r.db, "articles", b, func(row pgx.CollectableRow) (publishing.ArticleSummary, error) {
		var a publishing.ArticleSummary
		err := row.Scan(&a.ID, &a.Title, &a.TimesReviewed, &a.AverageRating)
		return a, err
	})
	if err != nil || !ok {
		return article, ok, err
	}

	article.Authors, err = selectAll(ctx, r.db, "authors", query.Psql.Select("au.full_name").
		From("article_authors aa").
		Join("authors au ON au.id = aa.author_id").
		Where(sq.Eq{"aa.article_id": article.ID}).
		OrderBy("au.full_name ASC"), scanString)
	if err != nil {
		return article, false, err
	}
	return article, true, nil
}

// LatestArticle is the most recently published article.
func (r *PublishingRepository) LatestArticle(ctx context.Context) (publishing.ArticleSummary, bool, error) {
	item, ok, err := r.firstArticle(ctx, articleSummary().OrderBy("a.published_on DESC", "a.id DESC"))
	return item, ok, errors.Wrap(err, "loading latest article")
}

// TopRatedArticle is the article with the best average rating, ties
// broken by title. Articles without reviews rank last.
func (r *PublishingRepository) TopRatedArticle(ctx context.Context) (publishing.ArticleSummary, bool, error) {
	item, ok, err := r.firstArticle(ctx, articleSummary().OrderBy("AVG(r.rating) DESC NULLS LAST", "a.title ASC"))
	return item, ok, errors.Wrap(err, "loading top rated article")
}

// DeleteReviewsBy removes every review written by the author.
func (r *PublishingRepository) DeleteReviewsBy(ctx context.Context, authorID int64) (int64, error) {
	n, err := exec(ctx, r.db, "reviews", query.Psql.Delete("reviews").Where(sq.Eq{"author_id": authorID}))
	return n, errors.Wrap(err, "deleting reviews")
}

func (r *PublishingRepository) SetBanned(ctx context.Context, authorID int64, banned bool) error {
	_, err := exec(ctx, r.db, "authors", query.Psql.Update("authors").
		Set("is_banned", banned).
		Where(sq.Eq{"id": authorID}))
	return errors.Wrap(err, "banning author")
}
