// Package cinema models directors, actors and the movies they make.
package cinema

import (
	"time"

	"github.com/deppfellow/labstore/internal/admin"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model"
	"github.com/deppfellow/labstore/internal/validation"
	"github.com/shopspring/decimal"
)

func init() {
	database.RegisterRelations(
		database.Relation{Table: "movies", Column: "director_id", References: "directors", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "movies", Column: "starring_actor_id", References: "actors", OnDelete: database.OnDeleteSetNull},
		database.Relation{Table: "movie_actors", Column: "movie_id", References: "movies", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "movie_actors", Column: "actor_id", References: "actors", OnDelete: database.OnDeleteCascade},
	)
}

// Genre is the closed set of movie genres.
type Genre string

const (
	GenreAction Genre = "Action"
	GenreComedy Genre = "Comedy"
	GenreDrama  Genre = "Drama"
	GenreOther  Genre = "Other"
)

func (g Genre) Valid() bool {
	switch g {
	case GenreAction, GenreComedy, GenreDrama, GenreOther:
		return true
	}
	return false
}

func (g Genre) String() string {
	return string(g)
}

// MaxRating is the ceiling of a movie rating.
var MaxRating = decimal.NewFromInt(10)

// RatingStep is added to classic movies by the rating bump.
var RatingStep = decimal.RequireFromString("0.1")

// StarringFallback stands in for the starring actor of a movie without one.
const StarringFallback = "N/A"

type Director struct {
	ID int64 `json:"id" db:"id"`
	model.Person
	YearsOfExperience int `json:"yearsOfExperience" db:"years_of_experience" validate:"gte=0"`
}

func (d Director) Validate() error {
	return validation.Struct(d)
}

func (d Director) String() string {
	return "Director: " + d.FullName
}

type Actor struct {
	ID int64 `json:"id" db:"id"`
	model.Person
	model.LastUpdated
	model.Awarded
}

func (a Actor) Validate() error {
	return validation.Struct(a)
}

func (a Actor) String() string {
	return a.FullName
}

// Movie belongs to a director (deleted with it) and optionally stars an
// actor (cleared when the actor is deleted).
type Movie struct {
	ID              int64           `json:"id" db:"id"`
	Title           string          `json:"title" db:"title" validate:"required,min=5,max=150"`
	ReleaseDate     time.Time       `json:"releaseDate" db:"release_date" validate:"required"`
	Storyline       string          `json:"storyline" db:"storyline"`
	Genre           Genre           `json:"genre" db:"genre" validate:"choice"`
	Rating          decimal.Decimal `json:"rating" db:"rating" validate:"gte=0,lte=10"`
	IsClassic       bool            `json:"isClassic" db:"is_classic"`
	DirectorID      int64           `json:"directorId" db:"director_id" validate:"required"`
	StarringActorID *int64          `json:"starringActorId" db:"starring_actor_id"`
	model.Awarded
	model.LastUpdated
}

// ApplyDefaults sets the genre of a movie created without one.
func (m *Movie) ApplyDefaults() {
	if m.Genre == "" {
		m.Genre = GenreOther
	}
}

func (m Movie) Validate() error {
	return validation.Struct(m)
}

func (m Movie) String() string {
	return m.Title
}

// Admins is the admin-panel configuration of the cinema entities.
func Admins() []admin.ModelAdmin {
	return []admin.ModelAdmin{
		{
			Name:           "director",
			Table:          "directors",
			ListDisplay:    []string{"full_name", "birth_date", "nationality"},
			ListFilter:     []string{"years_of_experience"},
			SearchFields:   []string{"full_name", "nationality"},
			SearchHelpText: "Search by full name or nationality",
		},
		{
			Name:           "actor",
			Table:          "actors",
			ListDisplay:    []string{"full_name", "birth_date", "nationality"},
			ListFilter:     []string{"is_awarded"},
			SearchFields:   []string{"full_name"},
			ReadonlyFields: []string{"last_updated"},
			SearchHelpText: "Search by full name",
		},
		{
			Name:           "movie",
			Table:          "movies",
			ListDisplay:    []string{"title", "storyline", "rating", "director"},
			ListFilter:     []string{"is_awarded", "is_classic", "genre"},
			SearchFields:   []string{"title", "director__full_name"},
			ReadonlyFields: []string{"last_updated"},
			SearchHelpText: "Search by title or director's full name",
		},
	}
}

// RankedDirector is a director with the number of movies they directed.
type RankedDirector struct {
	FullName    string
	MoviesCount int
}

// TopActor is the actor starring in the most movies.
type TopActor struct {
	ID            int64
	FullName      string
	StarringCount int
	AverageRating decimal.Decimal
	Movies        []string
}

// RankedActor is an actor with the number of movies they were cast in.
type RankedActor struct {
	FullName    string
	MoviesCount int
}

// AwardedMovie is the detail of the top-rated awarded movie.
type AwardedMovie struct {
	ID            int64
	Title         string
	Rating        decimal.Decimal
	StarringActor string
	Cast          []string
}
