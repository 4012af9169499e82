// Package tennis models players, tournaments and the matches played in them.
package tennis

import (
	"time"

	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/validation"
	"github.com/shopspring/decimal"
)

func init() {
	database.RegisterRelations(
		database.Relation{Table: "matches", Column: "tournament_id", References: "tournaments", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "matches", Column: "winner_id", References: "tennis_players", OnDelete: database.OnDeleteSetNull},
		database.Relation{Table: "match_players", Column: "match_id", References: "matches", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "match_players", Column: "player_id", References: "tennis_players", OnDelete: database.OnDeleteCascade},
	)
}

// Surface is the closed set of court surfaces.
type Surface string

const (
	SurfaceNotSelected Surface = "Not Selected"
	SurfaceClay        Surface = "Clay"
	SurfaceGrass       Surface = "Grass"
	SurfaceHardCourt   Surface = "Hard Court"
)

func (s Surface) Valid() bool {
	switch s {
	case SurfaceNotSelected, SurfaceClay, SurfaceGrass, SurfaceHardCourt:
		return true
	}
	return false
}

func (s Surface) String() string {
	return string(s)
}

// DateLayout formats tournament start dates.
const DateLayout = "2006-01-02"

// PlayedLayout formats the moment a match was played, in UTC.
const PlayedLayout = "2006-01-02 15:04:05-07:00"

// NoWinner stands in for the winner of a match that has none yet.
const NoWinner = "TBA"

type TennisPlayer struct {
	ID        int64     `json:"id" db:"id"`
	FullName  string    `json:"fullName" db:"full_name" validate:"required,min=5,max=120"`
	BirthDate time.Time `json:"birthDate" db:"birth_date" validate:"required"`
	Country   string    `json:"country" db:"country" validate:"required,min=2,max=100"`
	Ranking   int       `json:"ranking" db:"ranking" validate:"gte=1,lte=300"`
	IsActive  bool      `json:"isActive" db:"is_active"`
}

func (p TennisPlayer) Validate() error {
	return validation.Struct(p)
}

// Tournament names are unique.
type Tournament struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name" validate:"required,min=2,max=150"`
	Location    string          `json:"location" db:"location" validate:"required,min=2,max=100"`
	PrizeMoney  decimal.Decimal `json:"prizeMoney" db:"prize_money"`
	StartDate   time.Time       `json:"startDate" db:"start_date" validate:"required"`
	SurfaceType Surface         `json:"surfaceType" db:"surface_type" validate:"choice"`
}

// ApplyDefaults sets the surface of a tournament created without one.
func (t *Tournament) ApplyDefaults() {
	if t.SurfaceType == "" {
		t.SurfaceType = SurfaceNotSelected
	}
}

func (t Tournament) Validate() error {
	return validation.Struct(t)
}

// Match belongs to a tournament (deleted with it). Its winner is cleared
// when the player is deleted.
type Match struct {
	ID           int64     `json:"id" db:"id"`
	Score        string    `json:"score" db:"score" validate:"required,max=100"`
	Summary      string    `json:"summary" db:"summary" validate:"required,min=5"`
	DatePlayed   time.Time `json:"datePlayed" db:"date_played" validate:"required"`
	TournamentID int64     `json:"tournamentId" db:"tournament_id" validate:"required"`
	WinnerID     *int64    `json:"winnerId" db:"winner_id"`
}

func (m Match) Validate() error {
	return validation.Struct(m)
}

// RankedPlayer is a player with a related-row count (wins or matches).
type RankedPlayer struct {
	FullName string
	Count    int
}

// TournamentSummary is a tournament with its number of matches.
type TournamentSummary struct {
	Name         string
	StartDate    time.Time
	MatchesCount int
}

// MatchInfo is a match with its tournament, players and winner names.
type MatchInfo struct {
	ID         int64
	DatePlayed time.Time
	Tournament string
	Score      string
	Summary    string
	Players    []string
	Winner     string
}
