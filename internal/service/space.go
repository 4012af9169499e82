package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/model/space"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/validation"
)

type SpaceService struct {
	repo     *repository.SpaceRepository
	observer *logger.Observer
}

func NewSpaceService(repo *repository.SpaceRepository, observer *logger.Observer) *SpaceService {
	return &SpaceService{repo: repo, observer: observer}
}

func (s *SpaceService) CreateAstronaut(ctx context.Context, a *space.Astronaut) error {
	return logger.Run(ctx, s.observer, "create_astronaut", func(ctx context.Context) error {
		taken, err := unique(ctx, s.repo.PhoneNumberTaken, a.PhoneNumber, "phone_number", "Astronaut with this phone number already exists.")
		if err != nil {
			return err
		}
		if err := validation.Merge(validation.Check(a), taken...); err != nil {
			return err
		}
		return s.repo.CreateAstronaut(ctx, a)
	})
}

func (s *SpaceService) CreateSpacecraft(ctx context.Context, craft *space.Spacecraft) error {
	return logger.Run(ctx, s.observer, "create_spacecraft", func(ctx context.Context) error {
		if err := validation.Check(craft); err != nil {
			return err
		}
		return s.repo.CreateSpacecraft(ctx, craft)
	})
}

// CreateMission stores a mission with its crew in one transaction.
func (s *SpaceService) CreateMission(ctx context.Context, m *space.Mission, astronautIDs ...int64) error {
	return logger.Run(ctx, s.observer, "create_mission", func(ctx context.Context) error {
		m.ApplyDefaults()
		if err := validation.Check(m); err != nil {
			return err
		}
		return s.repo.InTx(ctx, func(repo *repository.SpaceRepository) error {
			return repo.CreateMission(ctx, m, astronautIDs...)
		})
	})
}

// GetAstronauts lists astronauts whose name or phone number contains
// search. A nil search returns "".
func (s *SpaceService) GetAstronauts(ctx context.Context, search *string) (string, error) {
	return logger.Observe(ctx, s.observer, "get_astronauts", func(ctx context.Context) (string, error) {
		if search == nil {
			return "", nil
		}

		astronauts, err := s.repo.Astronauts(ctx, query.AnyContains(*search, "name", "phone_number"))
		if err != nil {
			return "", err
		}

		return lines(astronauts, func(a space.Astronaut) string {
			return fmt.Sprintf("Astronaut: %s, phone number: %s, status: %s", a.Name, a.PhoneNumber, a.Status())
		}), nil
	})
}

func (s *SpaceService) GetTopAstronaut(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_top_astronaut", func(ctx context.Context) (string, error) {
		astronaut, ok, err := s.repo.TopAstronaut(ctx)
		if err != nil {
			return "", err
		}
		if !ok || astronaut.Count == 0 {
			return space.NoData, nil
		}
		return fmt.Sprintf("Top Astronaut: %s with %d missions.", astronaut.Name, astronaut.Count), nil
	})
}

func (s *SpaceService) GetTopCommander(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_top_commander", func(ctx context.Context) (string, error) {
		commander, ok, err := s.repo.TopCommander(ctx)
		if err != nil {
			return "", err
		}
		if !ok || commander.Count == 0 {
			return space.NoData, nil
		}
		return fmt.Sprintf("Top Commander: %s with %d commanded missions.", commander.Name, commander.Count), nil
	})
}

func (s *SpaceService) GetLastCompletedMission(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_last_completed_mission", func(ctx context.Context) (string, error) {
		mission, ok, err := s.repo.LastCompletedMission(ctx)
		if err != nil {
			return "", err
		}
		if !ok {
			return space.NoData, nil
		}

		commander := "TBA"
		if mission.HasCommander {
			commander = mission.Commander
		}

		return fmt.Sprintf("The last completed mission is: %s. Commander: %s. Astronauts: %s. Spacecraft: %s. Total spacewalks: %d.",
			mission.Name, commander, strings.Join(mission.Astronauts, ", "), mission.Spacecraft, mission.TotalSpacewalks), nil
	})
}

func (s *SpaceService) GetMostUsedSpacecraft(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_most_used_spacecraft", func(ctx context.Context) (string, error) {
		usage, ok, err := s.repo.MostUsedSpacecraft(ctx)
		if err != nil {
			return "", err
		}
		if !ok || usage.MissionsCount == 0 {
			return space.NoData, nil
		}

		return fmt.Sprintf("The most used spacecraft is: %s, manufactured by %s, used in %d missions, astronauts on missions: %d.",
			usage.Name, usage.Manufacturer, usage.MissionsCount, usage.AstronautsOnBoard), nil
	})
}

// DecreaseSpacecraftsWeight takes WeightReduction off every spacecraft of
// a planned mission heavy enough to lose it, store side, then reports the
// new fleet average.
func (s *SpaceService) DecreaseSpacecraftsWeight(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "decrease_spacecrafts_weight", func(ctx context.Context) (string, error) {
		n, err := s.repo.DecreasePlannedWeights(ctx, space.WeightReduction)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "No changes in weight.", nil
		}

		avg, err := s.repo.AverageWeight(ctx)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("The weight of %d spacecrafts has been decreased. The new average weight of all spacecrafts is %.1fkg", n, avg), nil
	})
}
