package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/model/tennis"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/validation"
)

// NoMatchesFound is the result of GetMatchesByTournament without matches.
const NoMatchesFound = "No matches found."

type TennisService struct {
	repo     *repository.TennisRepository
	observer *logger.Observer
}

func NewTennisService(repo *repository.TennisRepository, observer *logger.Observer) *TennisService {
	return &TennisService{repo: repo, observer: observer}
}

func (s *TennisService) CreatePlayer(ctx context.Context, p *tennis.TennisPlayer) error {
	return logger.Run(ctx, s.observer, "create_tennis_player", func(ctx context.Context) error {
		if err := validation.Check(p); err != nil {
			return err
		}
		return s.repo.CreatePlayer(ctx, p)
	})
}

func (s *TennisService) CreateTournament(ctx context.Context, t *tennis.Tournament) error {
	return logger.Run(ctx, s.observer, "create_tournament", func(ctx context.Context) error {
		t.ApplyDefaults()
		taken, err := unique(ctx, s.repo.TournamentNameTaken, t.Name, "name", "Tournament with this name already exists.")
		if err != nil {
			return err
		}
		if err := validation.Merge(validation.Check(t), taken...); err != nil {
			return err
		}
		return s.repo.CreateTournament(ctx, t)
	})
}

// CreateMatch stores a match with its players in one transaction.
func (s *TennisService) CreateMatch(ctx context.Context, m *tennis.Match, playerIDs ...int64) error {
	return logger.Run(ctx, s.observer, "create_match", func(ctx context.Context) error {
		if err := validation.Check(m); err != nil {
			return err
		}
		return s.repo.InTx(ctx, func(repo *repository.TennisRepository) error {
			return repo.CreateMatch(ctx, m, playerIDs...)
		})
	})
}

// GetTennisPlayers lists players whose name and country contain the given
// values, by ranking. Both nil returns "".
func (s *TennisService) GetTennisPlayers(ctx context.Context, name, country *string) (string, error) {
	return logger.Observe(ctx, s.observer, "get_tennis_players", func(ctx context.Context) (string, error) {
		pred, ok := query.AllContains(
			query.Filter{Column: "full_name", Value: name},
			query.Filter{Column: "country", Value: country},
		)
		if !ok {
			return "", nil
		}

		players, err := s.repo.Players(ctx, pred)
		if err != nil {
			return "", err
		}

		return lines(players, func(p tennis.TennisPlayer) string {
			return fmt.Sprintf("Tennis Player: %s, country: %s, ranking: %d", p.FullName, p.Country, p.Ranking)
		}), nil
	})
}

func (s *TennisService) GetTopTennisPlayer(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_top_tennis_player", func(ctx context.Context) (string, error) {
		player, ok, err := s.repo.TopByWins(ctx)
		if err != nil || !ok || player.Count == 0 {
			return "", err
		}
		return fmt.Sprintf("Top Tennis Player: %s with %d wins.", player.FullName, player.Count), nil
	})
}

func (s *TennisService) GetTennisPlayerByMatchesCount(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_tennis_player_by_matches_count", func(ctx context.Context) (string, error) {
		player, ok, err := s.repo.TopByMatches(ctx)
		if err != nil || !ok || player.Count == 0 {
			return "", err
		}
		return fmt.Sprintf("Tennis Player: %s with %d matches played.", player.FullName, player.Count), nil
	})
}

// GetTournamentsBySurfaceType lists tournaments whose surface contains
// surface, latest first. A nil surface returns "".
func (s *TennisService) GetTournamentsBySurfaceType(ctx context.Context, surface *string) (string, error) {
	return logger.Observe(ctx, s.observer, "get_tournaments_by_surface_type", func(ctx context.Context) (string, error) {
		if surface == nil {
			return "", nil
		}

		tournaments, err := s.repo.Tournaments(ctx, query.Contains("t.surface_type", *surface))
		if err != nil {
			return "", err
		}

		return lines(tournaments, func(t tennis.TournamentSummary) string {
			return fmt.Sprintf("Tournament: %s, start date: %s, matches: %d", t.Name, t.StartDate.Format(tennis.DateLayout), t.MatchesCount)
		}), nil
	})
}

func (s *TennisService) GetLatestMatchInfo(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_latest_match_info", func(ctx context.Context) (string, error) {
		match, ok, err := s.repo.LatestMatch(ctx)
		if err != nil || !ok {
			return "", err
		}

		var first, last string
		if len(match.Players) > 0 {
			first, last = match.Players[0], match.Players[len(match.Players)-1]
		}

		return fmt.Sprintf("Latest match played on: %s, tournament: %s, score: %s, players: %s vs %s, winner: %s, summary: %s",
			played(match), match.Tournament, match.Score, first, last, winner(match), match.Summary), nil
	})
}

// GetMatchesByTournament lists the matches of the tournament with exactly
// this name, latest first.
func (s *TennisService) GetMatchesByTournament(ctx context.Context, name *string) (string, error) {
	return logger.Observe(ctx, s.observer, "get_matches_by_tournament", func(ctx context.Context) (string, error) {
		if name == nil {
			return NoMatchesFound, nil
		}

		matches, err := s.repo.MatchesByTournament(ctx, *name)
		if err != nil {
			return "", err
		}
		if len(matches) == 0 {
			return NoMatchesFound, nil
		}

		return lines(matches, func(m tennis.MatchInfo) string {
			return fmt.Sprintf("Match played on: %s, score: %s, winner: %s", played(m), m.Score, winner(m))
		}), nil
	})
}

func played(m tennis.MatchInfo) string {
	return m.DatePlayed.UTC().Format(tennis.PlayedLayout)
}

func winner(m tennis.MatchInfo) string {
	if m.Winner == "" {
		return tennis.NoWinner
	}
	return m.Winner
}
