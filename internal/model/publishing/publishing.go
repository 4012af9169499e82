// Package publishing models authors, the articles they write and the
// reviews they leave.
package publishing

import (
	"time"

	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/validation"
)

func init() {
	database.RegisterRelations(
		database.Relation{Table: "article_authors", Column: "article_id", References: "articles", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "article_authors", Column: "author_id", References: "authors", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "reviews", Column: "author_id", References: "authors", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "reviews", Column: "article_id", References: "articles", OnDelete: database.OnDeleteCascade},
	)
}

// Category is the closed set of article categories.
type Category string

const (
	CategoryTechnology Category = "Technology"
	CategoryScience    Category = "Science"
	CategoryEducation  Category = "Education"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTechnology, CategoryScience, CategoryEducation:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Author emails are unique. Website is optional; an empty string is stored as NULL.
type Author struct {
	ID        int64  `json:"id" db:"id"`
	FullName  string `json:"fullName" db:"full_name" validate:"required,min=3,max=100"`
	Email     string `json:"email" db:"email" validate:"required,email"`
	IsBanned  bool   `json:"isBanned" db:"is_banned"`
	BirthYear int    `json:"birthYear" db:"birth_year" validate:"gte=1900,lte=2005"`
	Website   string `json:"website" db:"website" validate:"omitempty,url,max=200"`
}

func (a Author) Validate() error {
	return validation.Struct(a)
}

// Status is how listings describe the ban flag.
func (a Author) Status() string {
	if a.IsBanned {
		return "Banned"
	}
	return "Not Banned"
}

type Article struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title" validate:"required,min=5,max=200"`
	Content     string    `json:"content" db:"content" validate:"required,min=10"`
	Category    Category  `json:"category" db:"category" validate:"choice"`
	PublishedOn time.Time `json:"publishedOn" db:"published_on"`
}

// ApplyDefaults sets the category of an article created without one.
func (a *Article) ApplyDefaults() {
	if a.Category == "" {
		a.Category = CategoryTechnology
	}
}

func (a Article) Validate() error {
	return validation.Struct(a)
}

type Review struct {
	ID          int64     `json:"id" db:"id"`
	Content     string    `json:"content" db:"content" validate:"required,min=10"`
	Rating      float64   `json:"rating" db:"rating" validate:"gte=1,lte=5"`
	AuthorID    int64     `json:"authorId" db:"author_id" validate:"required"`
	ArticleID   int64     `json:"articleId" db:"article_id" validate:"required"`
	PublishedOn time.Time `json:"publishedOn" db:"published_on"`
}

func (r Review) Validate() error {
	return validation.Struct(r)
}

// RankedAuthor is an author with a related-row count (articles or reviews).
type RankedAuthor struct {
	FullName string
	Count    int
}

// ArticleSummary is an article with its authors and review statistics.
type ArticleSummary struct {
	ID            int64
	Title         string
	Authors       []string
	TimesReviewed int
	AverageRating float64
}
