package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/labstore/internal/errs"
	"github.com/deppfellow/labstore/internal/logger"
	"github.com/deppfellow/labstore/internal/model/records"
	"github.com/deppfellow/labstore/internal/repository"
	"github.com/deppfellow/labstore/internal/validation"
)

// Values the grand updates set on every character.
const (
	grandDexterity    = 30
	grandIntelligence = 40
	grandStrength     = 50
)

type RecordsService struct {
	repo     *repository.RecordsRepository
	observer *logger.Observer
}

func NewRecordsService(repo *repository.RecordsRepository, observer *logger.Observer) *RecordsService {
	return &RecordsService{repo: repo, observer: observer}
}

func (s *RecordsService) CreatePet(ctx context.Context, p *records.Pet) (string, error) {
	return logger.Observe(ctx, s.observer, "create_pet", func(ctx context.Context) (string, error) {
		if err := validation.Check(p); err != nil {
			return "", err
		}
		if err := s.repo.CreatePet(ctx, p); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is a very cute %s!", p.Name, p.Species), nil
	})
}

func (s *RecordsService) CreateArtifact(ctx context.Context, a *records.Artifact) (string, error) {
	return logger.Observe(ctx, s.observer, "create_artifact", func(ctx context.Context) (string, error) {
		if err := validation.Check(a); err != nil {
			return "", err
		}
		if err := s.repo.CreateArtifact(ctx, a); err != nil {
			return "", err
		}
		return fmt.Sprintf("The artifact %s is %d years old!", a.Name, a.Age), nil
	})
}

// RenameArtifact renames the artifact when it is magical and older than
// MagicRenameAge. renamed reports whether anything changed.
func (s *RecordsService) RenameArtifact(ctx context.Context, id int64, name string) (renamed bool, err error) {
	return logger.Observe(ctx, s.observer, "rename_artifact", func(ctx context.Context) (bool, error) {
		artifact, ok, err := s.repo.Artifact(ctx, id)
		if err != nil || !ok || !artifact.CanBeRenamed() {
			return false, err
		}

		artifact.Name = name
		if err := validation.Check(artifact); err != nil {
			return false, err
		}
		if err := s.repo.SaveArtifact(ctx, artifact); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *RecordsService) DeleteAllArtifacts(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "delete_all_artifacts", s.repo.DeleteAllArtifacts)
}

func (s *RecordsService) CreateLocation(ctx context.Context, l *records.Location) error {
	return logger.Run(ctx, s.observer, "create_location", func(ctx context.Context) error {
		if err := validation.Check(l); err != nil {
			return err
		}
		return s.repo.CreateLocation(ctx, l)
	})
}

// ShowAllLocations describes every location, newest first.
func (s *RecordsService) ShowAllLocations(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "show_all_locations", func(ctx context.Context) (string, error) {
		locations, err := s.repo.Locations(ctx)
		if err != nil {
			return "", err
		}
		return lines(locations, records.Location.String), nil
	})
}

// NewCapital marks the first location as a capital.
func (s *RecordsService) NewCapital(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "new_capital", s.repo.MarkFirstLocationCapital)
}

func (s *RecordsService) GetCapitals(ctx context.Context) ([]string, error) {
	return logger.Observe(ctx, s.observer, "get_capitals", s.repo.CapitalNames)
}

func (s *RecordsService) DeleteFirstLocation(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "delete_first_location", s.repo.DeleteFirstLocation)
}

func (s *RecordsService) CreateCar(ctx context.Context, c *records.Car) error {
	return logger.Run(ctx, s.observer, "create_car", func(ctx context.Context) error {
		if err := validation.Check(c); err != nil {
			return err
		}
		return s.repo.CreateCar(ctx, c)
	})
}

// ApplyCarDiscount recomputes the discounted price of every car, one row
// at a time with validation, inside a single transaction.
func (s *RecordsService) ApplyCarDiscount(ctx context.Context) (int, error) {
	return logger.Observe(ctx, s.observer, "apply_car_discount", func(ctx context.Context) (int, error) {
		updated := 0

		err := s.repo.InTx(ctx, func(repo *repository.RecordsRepository) error {
			cars, err := repo.LockCars(ctx)
			if err != nil {
				return err
			}

			for _, car := range cars {
				car.ApplyDiscount()
				if err := validation.Check(car); err != nil {
					return err
				}
				if err := repo.SavePriceWithDiscount(ctx, car.ID, car.PriceWithDiscount); err != nil {
					return err
				}
			}

			updated = len(cars)
			return nil
		})
		return updated, err
	})
}

// GetRecentCars lists the cars built after RecentCarYear.
func (s *RecordsService) GetRecentCars(ctx context.Context) ([]records.RecentCar, error) {
	return logger.Observe(ctx, s.observer, "get_recent_cars", func(ctx context.Context) ([]records.RecentCar, error) {
		return s.repo.RecentCars(ctx, records.RecentCarYear)
	})
}

func (s *RecordsService) DeleteLastCar(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "delete_last_car", s.repo.DeleteLastCar)
}

func (s *RecordsService) CreateTask(ctx context.Context, t *records.Task) error {
	return logger.Run(ctx, s.observer, "create_task", func(ctx context.Context) error {
		if err := validation.Check(t); err != nil {
			return err
		}
		return s.repo.CreateTask(ctx, t)
	})
}

func (s *RecordsService) ShowUnfinishedTasks(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "show_unfinished_tasks", func(ctx context.Context) (string, error) {
		tasks, err := s.repo.UnfinishedTasks(ctx)
		if err != nil {
			return "", err
		}
		return lines(tasks, records.Task.String), nil
	})
}

// CompleteOddTasks finishes every task with an odd id in one statement.
func (s *RecordsService) CompleteOddTasks(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "complete_odd_tasks", s.repo.FinishOddTasks)
}

// EncodeAndReplace decodes text and stores it as the description of every
// task titled title.
func (s *RecordsService) EncodeAndReplace(ctx context.Context, text, title string) (int64, error) {
	return logger.Observe(ctx, s.observer, "encode_and_replace", func(ctx context.Context) (int64, error) {
		decoded, err := records.Decode(text)
		if err != nil {
			return 0, err
		}
		return s.repo.ReplaceDescription(ctx, title, decoded)
	})
}

func (s *RecordsService) CreateRoom(ctx context.Context, h *records.HotelRoom) error {
	return logger.Run(ctx, s.observer, "create_hotel_room", func(ctx context.Context) error {
		if err := validation.Check(h); err != nil {
			return err
		}
		return s.repo.CreateRoom(ctx, h)
	})
}

// GetDeluxeRooms describes the deluxe rooms with an even id.
func (s *RecordsService) GetDeluxeRooms(ctx context.Context) (string, error) {
	return logger.Observe(ctx, s.observer, "get_deluxe_rooms", func(ctx context.Context) (string, error) {
		rooms, err := s.repo.DeluxeRooms(ctx)
		if err != nil {
			return "", err
		}
		return lines(rooms, records.HotelRoom.String), nil
	})
}

// IncreaseRoomCapacity applies records.IncreaseCapacities to every room
// and saves the changed rooms one by one, inside a single transaction.
func (s *RecordsService) IncreaseRoomCapacity(ctx context.Context) (int, error) {
	return logger.Observe(ctx, s.observer, "increase_room_capacity", func(ctx context.Context) (int, error) {
		updated := 0

		err := s.repo.InTx(ctx, func(repo *repository.RecordsRepository) error {
			rooms, err := repo.LockRooms(ctx)
			if err != nil {
				return err
			}

			changed := records.IncreaseCapacities(rooms)
			for _, room := range changed {
				if err := validation.Check(room); err != nil {
					return err
				}
				if err := repo.SaveCapacity(ctx, room.ID, room.Capacity); err != nil {
					return err
				}
			}

			updated = len(changed)
			return nil
		})
		return updated, err
	})
}

func (s *RecordsService) ReserveFirstRoom(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "reserve_first_room", s.repo.ReserveFirstRoom)
}

// DeleteLastRoom deletes the last room unless it is reserved.
func (s *RecordsService) DeleteLastRoom(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "delete_last_room", s.repo.DeleteLastRoom)
}

func (s *RecordsService) CreateCharacter(ctx context.Context, c *records.Character) error {
	return logger.Run(ctx, s.observer, "create_character", func(ctx context.Context) error {
		if err := validation.Check(c); err != nil {
			return err
		}
		return s.repo.CreateCharacter(ctx, c)
	})
}

// UpdateCharacters runs the per-class bulk updates in one transaction:
// mages gain levels and lose intelligence, warriors lose half their hit
// points and some dexterity, assassins and scouts lose their inventory.
func (s *RecordsService) UpdateCharacters(ctx context.Context) error {
	return logger.Run(ctx, s.observer, "update_characters", func(ctx context.Context) error {
		return s.repo.InTx(ctx, func(repo *repository.RecordsRepository) error {
			for _, update := range []func(context.Context) (int64, error){
				repo.AdjustMages,
				repo.AdjustWarriors,
				repo.EmptyInventories,
			} {
				if _, err := update(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// FuseCharacters replaces two characters with their fusion.
func (s *RecordsService) FuseCharacters(ctx context.Context, firstID, secondID int64) (records.Character, error) {
	return logger.Observe(ctx, s.observer, "fuse_characters", func(ctx context.Context) (records.Character, error) {
		var fused records.Character

		err := s.repo.InTx(ctx, func(repo *repository.RecordsRepository) error {
			first, err := lockCharacter(ctx, repo, firstID)
			if err != nil {
				return err
			}
			second, err := lockCharacter(ctx, repo, secondID)
			if err != nil {
				return err
			}

			fused = records.Fuse(first, second)
			if err := validation.Check(fused); err != nil {
				return err
			}
			if err := repo.CreateCharacter(ctx, &fused); err != nil {
				return err
			}

			for _, id := range []int64{first.ID, second.ID} {
				if _, err := repo.DeleteCharacter(ctx, id); err != nil {
					return err
				}
			}
			return nil
		})
		return fused, err
	})
}

func lockCharacter(ctx context.Context, repo *repository.RecordsRepository, id int64) (records.Character, error) {
	c, ok, err := repo.LockCharacter(ctx, id)
	if err != nil {
		return c, err
	}
	if !ok {
		return c, errs.NewNotFoundError(fmt.Sprintf("Character %d not found", id), false, nil)
	}
	return c, nil
}

func (s *RecordsService) GrandDexterity(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "grand_dexterity", func(ctx context.Context) (int64, error) {
		return s.repo.SetStat(ctx, repository.StatDexterity, grandDexterity)
	})
}

func (s *RecordsService) GrandIntelligence(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "grand_intelligence", func(ctx context.Context) (int64, error) {
		return s.repo.SetStat(ctx, repository.StatIntelligence, grandIntelligence)
	})
}

func (s *RecordsService) GrandStrength(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "grand_strength", func(ctx context.Context) (int64, error) {
		return s.repo.SetStat(ctx, repository.StatStrength, grandStrength)
	})
}

// DeleteCharacters deletes every character whose inventory was emptied.
func (s *RecordsService) DeleteCharacters(ctx context.Context) (int64, error) {
	return logger.Observe(ctx, s.observer, "delete_characters", s.repo.DeleteEmptyCharacters)
}
