package service

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authorRow = []string{"id", "full_name", "email", "is_banned", "birth_year", "website"}

func TestPublishingService_BanAuthor(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewPublishingService(repos.Publishing, nil)

	email := "jane@mail.com"

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM authors WHERE email = \$1 LIMIT 1 FOR UPDATE`).
		WithArgs(email).
		WillReturnRows(pgxmock.NewRows(authorRow).
			AddRow(int64(5), "Jane Doe", email, false, 1980, ""))
	mock.ExpectExec(`DELETE FROM reviews WHERE author_id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`UPDATE authors SET is_banned = \$1 WHERE id = \$2`).
		WithArgs(true, int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	out, err := svc.BanAuthor(context.Background(), &email)
	require.NoError(t, err)
	assert.Equal(t, "Author: Jane Doe is banned! 2 reviews deleted.", out)
}

func TestPublishingService_BanAuthor_NoMatch(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewPublishingService(repos.Publishing, nil)

	out, err := svc.BanAuthor(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, NoAuthorsBanned, out)

	email := "ghost@mail.com"
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM authors WHERE email = \$1`).
		WithArgs(email).
		WillReturnRows(pgxmock.NewRows(authorRow))
	mock.ExpectCommit()

	out, err = svc.BanAuthor(context.Background(), &email)
	require.NoError(t, err)
	assert.Equal(t, NoAuthorsBanned, out)
}

func TestPublishingService_GetTopRatedArticle(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewPublishingService(repos.Publishing, nil)

	summary := []string{"id", "title", "times_reviewed", "average_rating"}

	mock.ExpectQuery(`ORDER BY AVG\(r.rating\) DESC NULLS LAST, a.title ASC LIMIT 1`).
		WillReturnRows(pgxmock.NewRows(summary).AddRow(int64(1), "Unread", 0, float64(0)))
	mock.ExpectQuery(`FROM article_authors aa`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"full_name"}))

	out, err := svc.GetTopRatedArticle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out, "an article without reviews is not top rated")

	mock.ExpectQuery(`ORDER BY AVG\(r.rating\) DESC NULLS LAST`).
		WillReturnRows(pgxmock.NewRows(summary).AddRow(int64(2), "Go in Practice", 3, 4.5))
	mock.ExpectQuery(`FROM article_authors aa`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"full_name"}).AddRow("Jane Doe"))

	out, err = svc.GetTopRatedArticle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The top-rated article is: Go in Practice, with an average rating of 4.50, reviewed 3 times.", out)
}

func TestPublishingService_GetLatestArticle(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewPublishingService(repos.Publishing, nil)

	mock.ExpectQuery(`ORDER BY a.published_on DESC, a.id DESC LIMIT 1`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "times_reviewed", "average_rating"}).
			AddRow(int64(2), "Go in Practice", 2, 3.75))
	mock.ExpectQuery(`FROM article_authors aa JOIN authors au ON au.id = aa.author_id WHERE aa.article_id = \$1 ORDER BY au.full_name ASC`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"full_name"}).AddRow("Ann Lee").AddRow("Jane Doe"))

	out, err := svc.GetLatestArticle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The latest article is: Go in Practice. Authors: Ann Lee, Jane Doe. Reviewed: 2 times. Average Rating: 3.75.", out)
}

func TestPublishingService_GetAuthors_NilCriteria(t *testing.T) {
	_, repos := newMock(t)
	svc := NewPublishingService(repos.Publishing, nil)

	out, err := svc.GetAuthors(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPublishingService_TopAuthors(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewPublishingService(repos.Publishing, nil)
	ctx := context.Background()

	articles := []string{"full_name", "articles_count"}
	reviews := []string{"full_name", "reviews_count"}

	mock.ExpectQuery(`FROM authors au LEFT JOIN article_authors aa ON aa.author_id = au.id GROUP BY au.id ORDER BY articles_count DESC, au.email ASC LIMIT 1`).
		WillReturnRows(pgxmock.NewRows(articles).AddRow("Jane Doe", 0))
	mock.ExpectQuery(`FROM authors au LEFT JOIN article_authors`).
		WillReturnRows(pgxmock.NewRows(articles).AddRow("Jane Doe", 4))
	mock.ExpectQuery(`FROM authors au LEFT JOIN reviews r ON r.author_id = au.id GROUP BY au.id ORDER BY reviews_count DESC, au.email ASC LIMIT 1`).
		WillReturnRows(pgxmock.NewRows(reviews).AddRow("John Roe", 0))
	mock.ExpectQuery(`FROM authors au LEFT JOIN reviews r`).
		WillReturnRows(pgxmock.NewRows(reviews))

	out, err := svc.GetTopPublisher(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = svc.GetTopPublisher(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Top Author: Jane Doe with 4 published articles.", out)

	out, err = svc.GetTopReviewer(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = svc.GetTopReviewer(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}
