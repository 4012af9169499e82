package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model/space"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type SpaceRepository struct {
	db database.DBTX
}

func NewSpaceRepository(db database.DBTX) *SpaceRepository {
	return &SpaceRepository{db: db}
}

// InTx runs fn with a repository bound to one transaction.
func (r *SpaceRepository) InTx(ctx context.Context, fn func(repo *SpaceRepository) error) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&SpaceRepository{db: tx})
	})
}

func (r *SpaceRepository) CreateAstronaut(ctx context.Context, a *space.Astronaut) error {
	id, err := insert(ctx, r.db, "astronauts", query.Psql.Insert("astronauts").
		Columns("name", "phone_number", "is_active", "date_of_birth", "spacewalks").
		Values(a.Name, a.PhoneNumber, a.IsActive, a.DateOfBirth, a.Spacewalks))
	if err != nil {
		return errors.Wrap(err, "creating astronaut")
	}

	a.ID = id
	return nil
}

func (r *SpaceRepository) PhoneNumberTaken(ctx context.Context, phone string) (bool, error) {
	return query.Taken(ctx, r.db, "astronauts", "phone_number", phone, nil)
}

func (r *SpaceRepository) CreateSpacecraft(ctx context.Context, s *space.Spacecraft) error {
	id, err := insert(ctx, r.db, "spacecrafts", query.Psql.Insert("spacecrafts").
		Columns("name", "manufacturer", "capacity", "weight", "launch_date").
		Values(s.Name, s.Manufacturer, s.Capacity, s.Weight, s.LaunchDate))
	if err != nil {
		return errors.Wrap(err, "creating spacecraft")
	}

	s.ID = id
	return nil
}

// CreateMission inserts the mission and links its crew.
func (r *SpaceRepository) CreateMission(ctx context.Context, m *space.Mission, astronautIDs ...int64) error {
	id, err := insert(ctx, r.db, "missions", query.Psql.Insert("missions").
		Columns("name", "description", "status", "launch_date", "spacecraft_id", "commander_id").
		Values(m.Name, nullable(m.Description), m.Status, m.LaunchDate, m.SpacecraftID, m.CommanderID))
	if err != nil {
		return errors.Wrap(err, "creating mission")
	}
	m.ID = id

	if len(astronautIDs) == 0 {
		return nil
	}

	b := query.Psql.Insert("mission_astronauts").Columns("mission_id", "astronaut_id")
	for _, astronautID := range astronautIDs {
		b = b.Values(id, astronautID)
	}

	_, err = exec(ctx, r.db, "mission_astronauts", b)
	return errors.Wrap(err, "adding mission crew")
}

// Astronauts lists the astronauts matching pred ordered by name.
func (r *SpaceRepository) Astronauts(ctx context.Context, pred sq.Sqlizer) ([]space.Astronaut, error) {
	b := query.Psql.Select("id", "name", "phone_number", "is_active", "spacewalks").
		From("astronauts").
		Where(pred).
		OrderBy("name ASC")

	items, err := selectAll(ctx, r.db, "astronauts", b, func(row pgx.CollectableRow) (space.Astronaut, error) {
		var a space.Astronaut
		err := row.Scan(&a.ID, &a.Name, &a.PhoneNumber, &a.IsActive, &a.Spacewalks)
		return a, err
	})
	return items, errors.Wrap(err, "listing astronauts")
}

func (r *SpaceRepository) topAstronaut(ctx context.Context, rank query.Rank) (space.RankedAstronaut, bool, error) {
	return selectFirst(ctx, r.db, "astronauts", query.RankByCount(rank, "a.name"), func(row pgx.CollectableRow) (space.RankedAstronaut, error) {
		var a space.RankedAstronaut
		err := row.Scan(&a.Name, &a.Count)
		return a, err
	})
}

// TopAstronaut is the astronaut on the most missions, ties broken by
// phone number.
func (r *SpaceRepository) TopAstronaut(ctx context.Context) (space.RankedAstronaut, bool, error) {
	item, ok, err := r.topAstronaut(ctx, query.Rank{
		From:     "astronauts a",
		Key:      "a.id",
		Join:     "mission_astronauts ma ON ma.astronaut_id = a.id",
		Counted:  "ma.mission_id",
		As:       "missions_count",
		TieBreak: "a.phone_number",
	})
	return item, ok, errors.Wrap(err, "ranking astronauts by missions")
}

// TopCommander is the astronaut commanding the most missions, ties broken
// by phone number.
func (r *SpaceRepository) TopCommander(ctx context.Context) (space.RankedAstronaut, bool, error) {
	item, ok, err := r.topAstronaut(ctx, query.Rank{
		From:     "astronauts a",
		Key:      "a.id",
		Join:     "missions m ON m.commander_id = a.id",
		Counted:  "m.id",
		As:       "commanded_count",
		TieBreak: "a.phone_number",
	})
	return item, ok, errors.Wrap(err, "ranking astronauts by commands")
}

// LastCompletedMission is the completed mission launched last, with its
// crew ordered by name and the crew's total spacewalks.
func (r *SpaceRepository) LastCompletedMission(ctx context.Context) (space.CompletedMission, bool, error) {
	b := query.Psql.Select("m.id", "m.name", "c.id IS NOT NULL AS has_commander", "COALESCE(c.name, '')", "s.name").
		From("missions m").
		Join("spacecrafts s ON s.id = m.spacecraft_id").
		LeftJoin("astronauts c ON c.id = m.commander_id").
		Where(sq.Eq{"m.status": space.StatusCompleted}).
		OrderBy("m.launch_date DESC", "m.id DESC")

	mission, ok, err := selectFirst(ctx, r.db, "missions", b, func(row pgx.CollectableRow) (space.CompletedMission, error) {
		var m space.CompletedMission
		err := row.Scan(&m.ID, &m.Name, &m.HasCommander, &m.Commander, &m.Spacecraft)
		return m, err
	})
	if err != nil || !ok {
		return mission, ok, errors.Wrap(err, "loading last completed mission")
	}

	crew := query.Psql.Select().
		From("mission_astronauts ma").
		Join("astronauts a ON a.id = ma.astronaut_id").
		Where(sq.Eq{"ma.mission_id": mission.ID})

	mission.Astronauts, err = selectAll(ctx, r.db, "astronauts", crew.Columns("a.name").OrderBy("a.name ASC"), scanString)
	if err != nil {
		return mission, false, errors.Wrap(err, "listing mission crew")
	}

	mission.TotalSpacewalks, err = scalar[int](ctx, r.db, "astronauts", crew.Columns("COALESCE(SUM(a.spacewalks), 0)"))
	if err != nil {
		return mission, false, errors.Wrap(err, "summing spacewalks")
	}
	return mission, true, nil
}

// MostUsedSpacecraft is the spacecraft flying the most missions, ties
// broken by name, with the number of distinct astronauts it carried.
func (r *SpaceRepository) MostUsedSpacecraft(ctx context.Context) (space.SpacecraftUsage, bool, error) {
	b := query.RankByCount(query.Rank{
		From:     "spacecrafts s",
		Key:      "s.id",
		Join:     "missions m ON m.spacecraft_id = s.id",
		Counted:  "m.id",
		As:       "missions_count",
		TieBreak: "s.name",
	}, "s.id", "s.name", "s.manufacturer")

	usage, ok, err := selectFirst(ctx, r.db, "spacecrafts", b, func(row pgx.CollectableRow) (space.SpacecraftUsage, error) {
		var s space.SpacecraftUsage
		err := row.Scan(&s.ID, &s.Name, &s.Manufacturer, &s.MissionsCount)
		return s, err
	})
	if err != nil || !ok || usage.MissionsCount == 0 {
		return usage, ok, errors.Wrap(err, "ranking spacecrafts")
	}

	usage.AstronautsOnBoard, err = scalar[int](ctx, r.db, "mission_astronauts", query.Psql.Select("COUNT(DISTINCT ma.astronaut_id)").
		From("missions m").
		Join("mission_astronauts ma ON ma.mission_id = m.id").
		Where(sq.Eq{"m.spacecraft_id": usage.ID}))
	if err != nil {
		return usage, false, errors.Wrap(err, "counting astronauts on board")
	}
	return usage, true, nil
}

// DecreasePlannedWeights takes reduction off every spacecraft of a
// planned mission that weighs at least reduction, in one statement.
func (r *SpaceRepository) DecreasePlannedWeights(ctx context.Context, reduction float64) (int64, error) {
	n, err := exec(ctx, r.db, "spacecrafts", query.Psql.Update("spacecrafts").
		Set("weight", sq.Expr("weight - ?", reduction)).
		Where(sq.GtOrEq{"weight": reduction}).
		Where("id IN (SELECT spacecraft_id FROM missions WHERE status = ?)", space.StatusPlanned))
	return n, errors.Wrap(err, "decreasing spacecraft weights")
}

// AverageWeight is the mean weight of all spacecrafts, zero without any.
func (r *SpaceRepository) AverageWeight(ctx context.Context) (float64, error) {
	avg, err := scalar[float64](ctx, r.db, "spacecrafts", query.Psql.Select("COALESCE(AVG(weight), 0)").From("spacecrafts"))
	return avg, errors.Wrap(err, "averaging spacecraft weight")
}
