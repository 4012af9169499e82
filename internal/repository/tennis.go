package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model/tennis"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type TennisRepository struct {
	db database.DBTX
}

func NewTennisRepository(db database.DBTX) *TennisRepository {
	return &TennisRepository{db: db}
}

// InTx runs fn with a repository bound to one transaction.
func (r *TennisRepository) InTx(ctx context.Context, fn func(repo *TennisRepository) error) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&TennisRepository{db: tx})
	})
}

func (r *TennisRepository) CreatePlayer(ctx context.Context, p *tennis.TennisPlayer) error {
	id, err := insert(ctx, r.db, "tennis_players", query.Psql.Insert("tennis_players").
		Columns("full_name", "birth_date", "country", "ranking", "is_active").
		Values(p.FullName, p.BirthDate, p.Country, p.Ranking, p.IsActive))
	if err != nil {
		return errors.Wrap(err, "creating tennis player")
	}

	p.ID = id
	return nil
}

func (r *TennisRepository) CreateTournament(ctx context.Context, t *tennis.Tournament) error {
	id, err := insert(ctx, r.db, "tournaments", query.Psql.Insert("tournaments").
		Columns("name", "location", "prize_money", "start_date", "surface_type").
		Values(t.Name, t.Location, t.PrizeMoney, t.StartDate, t.SurfaceType))
	if err != nil {
		return errors.Wrap(err, "creating tournament")
	}

	t.ID = id
	return nil
}

func (r *TennisRepository) TournamentNameTaken(ctx context.Context, name string) (bool, error) {
	return query.Taken(ctx, r.db, "tournaments", "name", name, nil)
}

// CreateMatch inserts the match and links the players who played it.
func (r *TennisRepository) CreateMatch(ctx context.Context, m *tennis.Match, playerIDs ...int64) error {
	id, err := insert(ctx, r.db, "matches", query.Psql.Insert("matches").
		Columns("score", "summary", "date_played", "tournament_id", "winner_id").
		Values(m.Score, m.Summary, m.DatePlayed, m.TournamentID, m.WinnerID))
	if err != nil {
		return errors.Wrap(err, "creating match")
	}
	m.ID = id

	if len(playerIDs) == 0 {
		return nil
	}

	b := query.Psql.Insert("match_players").Columns("match_id", "player_id")
	for _, playerID := range playerIDs {
		b = b.Values(id, playerID)
	}

	_, err = exec(ctx, r.db, "match_players", b)
	return errors.Wrap(err, "adding match players")
}

// Players lists the players matching pred by ranking.
func (r *TennisRepository) Players(ctx context.Context, pred sq.Sqlizer) ([]tennis.TennisPlayer, error) {
	b := query.Psql.Select("id", "full_name", "birth_date", "country", "ranking", "is_active").
		From("tennis_players").
		Where(pred).
		OrderBy("ranking ASC")

	items, err := selectAll(ctx, r.db, "tennis_players", b, func(row pgx.CollectableRow) (tennis.TennisPlayer, error) {
		var p tennis.TennisPlayer
		err := row.Scan(&p.ID, &p.FullName, &p.BirthDate, &p.Country, &p.Ranking, &p.IsActive)
		return p, err
	})
	return items, errors.Wrap(err, "listing tennis players")
}

func (r *TennisRepository) topPlayer(ctx context.Context, rank query.Rank) (tennis.RankedPlayer, bool, error) {
	return selectFirst(ctx, r.db, "tennis_players", query.RankByCount(rank, "p.full_name"), func(row pgx.CollectableRow) (tennis.RankedPlayer, error) {
		var p tennis.RankedPlayer
		err := row.Scan(&p.FullName, &p.Count)
		return p, err
	})
}

// TopByWins is the player with the most won matches, ties broken by name.
func (r *TennisRepository) TopByWins(ctx context.Context) (tennis.RankedPlayer, bool, error) {
	item, ok, err := r.topPlayer(ctx, query.Rank{
		From:     "tennis_players p",
		Key:      "p.id",
		Join:     "matches m ON m.winner_id = p.id",
		Counted:  "m.id",
		As:       "wins_count",
		TieBreak: "p.full_name",
	})
	return item, ok, errors.Wrap(err, "ranking players by wins")
}

// TopByMatches is the player with the most played matches, ties broken by
// ranking.
func (r *TennisRepository) TopByMatches(ctx context.Context) (tennis.RankedPlayer, bool, error) {
	item, ok, err := r.topPlayer(ctx, query.Rank{
		From:     "tennis_players p",
		Key:      "p.id",
		Join:     "match_players mp ON mp.player_id = p.id",
		Counted:  "mp.match_id",
		As:       "matches_count",
		TieBreak: "p.ranking",
	})
	return item, ok, errors.Wrap(err, "ranking players by matches")
}

// Tournaments lists the tournaments matching pred, latest first, each
// with its number of matches.
func (r *TennisRepository) Tournaments(ctx context.Context, pred sq.Sqlizer) ([]tennis.TournamentSummary, error) {
	b := query.Psql.Select("t.name", "t.start_date", "COUNT(m.id) AS matches_count").
		From("tournaments t").
		LeftJoin("matches m ON m.tournament_id = t.id").
		Where(pred).
		GroupBy("t.id").
		OrderBy("t.start_date DESC")

	items, err := selectAll(ctx, r.db, "tournaments", b, func(row pgx.CollectableRow) (tennis.TournamentSummary, error) {
		var t tennis.TournamentSummary
		err := row.Scan(&t.Name, &t.StartDate, &t.MatchesCount)
		return t, err
	})
	return items, errors.Wrap(err, "listing tournaments")
}

// matchInfo selects matches with their tournament and winner names. A
// match without a winner has an empty winner name.
func matchInfo() sq.SelectBuilder {
	return query.Psql.Select("m.id", "m.date_played", "t.name", "m.score", "m.summary", "COALESCE(w.full_name, '')").
		From("matches m").
		Join("tournaments t ON t.id = m.tournament_id").
		LeftJoin("tennis_players w ON w.id = m.winner_id")
}

func scanMatchInfo(row pgx.CollectableRow) (tennis.MatchInfo, error) {
	var m tennis.MatchInfo
	err := row.Scan(&m.ID, &m.DatePlayed, &m.Tournament, &m.Score, &m.Summary, &m.Winner)
	return m, err
}

// LatestMatch is the most recently played match with its players ordered
// by name.
func (r *TennisRepository) LatestMatch(ctx context.Context) (tennis.MatchInfo, bool, error) {
	match, ok, err := selectFirst(ctx, r.db, "matches", matchInfo().OrderBy("m.date_played DESC", "m.id DESC"), scanMatchInfo)
	if err != nil || !ok {
		return match, ok, errors.Wrap(err, "loading latest match")
	}

	match.Players, err = selectAll(ctx, r.db, "match_players", query.Psql.Select("p.full_name").
		From("match_players mp").
		Join("tennis_players p ON p.id = mp.player_id").
		Where(sq.Eq{"mp.match_id": match.ID}).
		OrderBy("p.full_name ASC"), scanString)
	if err != nil {
		return match, false, errors.Wrap(err, "listing match players")
	}
	return match, true, nil
}

// MatchesByTournament lists the matches of the tournament with exactly
// this name, latest first.
func (r *TennisRepository) MatchesByTournament(ctx context.Context, name string) ([]tennis.MatchInfo, error) {
	b := matchInfo().
		Where(sq.Eq{"t.name": name}).
		OrderBy("m.date_played DESC")

	items, err := selectAll(ctx, r.db, "matches", b, scanMatchInfo)
	return items, errors.Wrap(err, "listing tournament matches")
}
