package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model/records"
	"github.com/deppfellow/labstore/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// RecordsRepository covers the standalone record tables: pets, artifacts,
// locations, cars, tasks, hotel rooms and characters.
type RecordsRepository struct {
	db database.DBTX
}

func NewRecordsRepository(db database.DBTX) *RecordsRepository {
	return &RecordsRepository{db: db}
}

// InTx runs fn with a repository bound to one transaction.
func (r *RecordsRepository) InTx(ctx context.Context, fn func(repo *RecordsRepository) error) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&RecordsRepository{db: tx})
	})
}

// firstID and lastID select the lowest and highest id of a table.
func firstID(table string) sq.Sqlizer {
	return sq.Expr("id = (SELECT MIN(id) FROM " + table + ")")
}

func lastID(table string) sq.Sqlizer {
	return sq.Expr("id = (SELECT MAX(id) FROM " + table + ")")
}

// ---------------------------------------------------------------------------
// pets and artifacts

func (r *RecordsRepository) CreatePet(ctx context.Context, p *records.Pet) error {
	id, err := insert(ctx, r.db, "pets", query.Psql.Insert("pets").
		Columns("name", "species").
		Values(p.Name, p.Species))
	if err != nil {
		return errors.Wrap(err, "creating pet")
	}

	p.ID = id
	return nil
}

func (r *RecordsRepository) CreateArtifact(ctx context.Context, a *records.Artifact) error {
	id, err := insert(ctx, r.db, "artifacts", query.Psql.Insert("artifacts").
		Columns("name", "origin", "age", "description", "is_magical").
		Values(a.Name, a.Origin, a.Age, a.Description, a.IsMagical))
	if err != nil {
		return errors.Wrap(err, "creating artifact")
	}

	a.ID = id
	return nil
}

func (r *RecordsRepository) Artifact(ctx context.Context, id int64) (records.Artifact, bool, error) {
	b := query.Psql.Select("id", "name", "origin", "age", "description", "is_magical").
		From("artifacts").
		Where(sq.Eq{"id": id})

	item, ok, err := selectFirst(ctx, r.db, "artifacts", b, func(row pgx.CollectableRow) (records.Artifact, error) {
		var a records.Artifact
		err := row.Scan(&a.ID, &a.Name, &a.Origin, &a.Age, &a.Description, &a.IsMagical)
		return a, err
	})
	return item, ok, errors.Wrap(err, "loading artifact")
}

func (r *RecordsRepository) SaveArtifact(ctx context.Context, a records.Artifact) error {
	_, err := exec(ctx, r.db, "artifacts", query.Psql.Update("artifacts").
		Set("name", a.Name).
		Set("origin", a.Origin).
		Set("age", a.Age).
		Set("description", a.Description).
		Set("is_magical", a.IsMagical).
		Where(sq.Eq{"id": a.ID}))
	return errors.Wrap(err, "saving artifact")
}

func (r *RecordsRepository) DeleteAllArtifacts(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "artifacts", query.Psql.Delete("artifacts"))
	return n, errors.Wrap(err, "deleting artifacts")
}

// ---------------------------------------------------------------------------
// locations

func (r *RecordsRepository) CreateLocation(ctx context.Context, l *records.Location) error {
	id, err := insert(ctx, r.db, "locations", query.Psql.Insert("locations").
		Columns("name", "region", "population", "description", "is_capital").
		Values(l.Name, l.Region, l.Population, l.Description, l.IsCapital))
	if err != nil {
		return errors.Wrap(err, "creating location")
	}

	l.ID = id
	return nil
}

// Locations lists every location, newest first.
func (r *RecordsRepository) Locations(ctx context.Context) ([]records.Location, error) {
	b := query.Psql.Select("id", "name", "region", "population", "description", "is_capital").
		From("locations").
		OrderBy("id DESC")

	items, err := selectAll(ctx, r.db, "locations", b, func(row pgx.CollectableRow) (records.Location, error) {
		var l records.Location
		err := row.Scan(&l.ID, &l.Name, &l.Region, &l.Population, &l.Description, &l.IsCapital)
		return l, err
	})
	return items, errors.Wrap(err, "listing locations")
}

// MarkFirstLocationCapital flags the location with the lowest id.
func (r *RecordsRepository) MarkFirstLocationCapital(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "locations", query.Psql.Update("locations").
		Set("is_capital", true).
		Where(firstID("locations")))
	return n, errors.Wrap(err, "marking capital")
}

func (r *RecordsRepository) CapitalNames(ctx context.Context) ([]string, error) {
	b := query.Psql.Select("name").
		From("locations").
		Where(sq.Eq{"is_capital": true}).
		OrderBy("id ASC")

	names, err := selectAll(ctx, r.db, "locations", b, scanString)
	return names, errors.Wrap(err, "listing capitals")
}

func (r *RecordsRepository) DeleteFirstLocation(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "locations", query.Psql.Delete("locations").Where(firstID("locations")))
	return n, errors.Wrap(err, "deleting first location")
}

// ---------------------------------------------------------------------------
// cars

func (r *RecordsRepository) CreateCar(ctx context.Context, c *records.Car) error {
	id, err := insert(ctx, r.db, "cars", query.Psql.Insert("cars").
		Columns("model", "year", "color", "price", "price_with_discount").
		Values(c.Model, c.Year, c.Color, c.Price, c.PriceWithDiscount))
	if err != nil {
		return errors.Wrap(err, "creating car")
	}

	c.ID = id
	return nil
}

// LockCars locks and returns every car ordered by id.
func (r *RecordsRepository) LockCars(ctx context.Context) ([]records.Car, error) {
	b := query.Psql.Select("id", "model", "year", "color", "price", "price_with_discount").
		From("cars").
		OrderBy("id ASC").
		Suffix("FOR UPDATE")

	items, err := selectAll(ctx, r.db, "cars", b, func(row pgx.CollectableRow) (records.Car, error) {
		var c records.Car
		err := row.Scan(&c.ID, &c.Model, &c.Year, &c.Color, &c.Price, &c.PriceWithDiscount)
		return c, err
	})
	return items, errors.Wrap(err, "locking cars")
}

func (r *RecordsRepository) SavePriceWithDiscount(ctx context.Context, id int64, price decimal.Decimal) error {
	_, err := exec(ctx, r.db, "cars", query.Psql.Update("cars").
		Set("price_with_discount", price).
		Where(sq.Eq{"id": id}))
	return errors.Wrap(err, "saving discounted price")
}

// RecentCars lists the cars built after year, ordered by id.
func (r *RecordsRepository) RecentCars(ctx context.Context, year int) ([]records.RecentCar, error) {
	b := query.Psql.Select("model", "price_with_discount").
		From("cars").
		Where(sq.Gt{"year": year}).
		OrderBy("id ASC")

	items, err := selectAll(ctx, r.db, "cars", b, func(row pgx.CollectableRow) (records.RecentCar, error) {
		var c records.RecentCar
		err := row.Scan(&c.Model, &c.PriceWithDiscount)
		return c, err
	})
	return items, errors.Wrap(err, "listing recent cars")
}

func (r *RecordsRepository) DeleteLastCar(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "cars", query.Psql.Delete("cars").Where(lastID("cars")))
	return n, errors.Wrap(err, "deleting last car")
}

// ---------------------------------------------------------------------------
// tasks

func (r *RecordsRepository) CreateTask(ctx context.Context, t *records.Task) error {
	id, err := insert(ctx, r.db, "tasks", query.Psql.Insert("tasks").
		Columns("title", "description", "due_date", "is_finished").
		Values(t.Title, t.Description, t.DueDate, t.IsFinished))
	if err != nil {
		return errors.Wrap(err, "creating task")
	}

	t.ID = id
	return nil
}

func (r *RecordsRepository) UnfinishedTasks(ctx context.Context) ([]records.Task, error) {
	b := query.Psql.Select("id", "title", "description", "due_date", "is_finished").
		From("tasks").
		Where(sq.Eq{"is_finished": false}).
		OrderBy("id ASC")

	items, err := selectAll(ctx, r.db, "tasks", b, func(row pgx.CollectableRow) (records.Task, error) {
		var t records.Task
		err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.IsFinished)
		return t, err
	})
	return items, errors.Wrap(err, "listing unfinished tasks")
}

// FinishOddTasks marks every task with an odd id as finished.
func (r *RecordsRepository) FinishOddTasks(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "tasks", query.Psql.Update("tasks").
		Set("is_finished", true).
		Where("id % 2 <> 0"))
	return n, errors.Wrap(err, "finishing odd tasks")
}

// ReplaceDescription sets the description of every task with this title.
func (r *RecordsRepository) ReplaceDescription(ctx context.Context, title, description string) (int64, error) {
	n, err := exec(ctx, r.db, "tasks", query.Psql.Update("tasks").
		Set("description", description).
		Where(sq.Eq{"title": title}))
	return n, errors.Wrap(err, "replacing task description")
}

// ---------------------------------------------------------------------------
// hotel rooms

var roomColumns = []string{"id", "room_number", "room_type", "capacity", "amenities", "price_per_night", "is_reserved"}

func scanRoom(row pgx.CollectableRow) (records.HotelRoom, error) {
	var h records.HotelRoom
	err := row.Scan(&h.ID, &h.RoomNumber, &h.RoomType, &h.Capacity, &h.Amenities, &h.PricePerNight, &h.IsReserved)
	return h, err
}

func (r *RecordsRepository) CreateRoom(ctx context.Context, h *records.HotelRoom) error {
	id, err := insert(ctx, r.db, "hotel_rooms", query.Psql.Insert("hotel_rooms").
		Columns("room_number", "room_type", "capacity", "amenities", "price_per_night", "is_reserved").
		Values(h.RoomNumber, h.RoomType, h.Capacity, h.Amenities, h.PricePerNight, h.IsReserved))
	if err != nil {
		return errors.Wrap(err, "creating hotel room")
	}

	h.ID = id
	return nil
}

// DeluxeRooms lists the deluxe rooms with an even id.
func (r *RecordsRepository) DeluxeRooms(ctx context.Context) ([]records.HotelRoom, error) {
	b := query.Psql.Select(roomColumns...).
		From("hotel_rooms").
		Where(sq.Eq{"room_type": records.RoomDeluxe}).
		Where("id % 2 = 0").
		OrderBy("id ASC")

	items, err := selectAll(ctx, r.db, "hotel_rooms", b, scanRoom)
	return items, errors.Wrap(err, "listing deluxe rooms")
}

// LockRooms locks and returns every room ordered by id.
func (r *RecordsRepository) LockRooms(ctx context.Context) ([]records.HotelRoom, error) {
	b := query.Psql.Select(roomColumns...).
		From("hotel_rooms").
		OrderBy("id ASC").
		Suffix("FOR UPDATE")

	items, err := selectAll(ctx, r.db, "hotel_rooms", b, scanRoom)
	return items, errors.Wrap(err, "locking hotel rooms")
}

func (r *RecordsRepository) SaveCapacity(ctx context.Context, id int64, capacity int) error {
	_, err := exec(ctx, r.db, "hotel_rooms", query.Psql.Update("hotel_rooms").
		Set("capacity", capacity).
		Where(sq.Eq{"id": id}))
	return errors.Wrap(err, "saving room capacity")
}

// ReserveFirstRoom reserves the room with the lowest id.
func (r *RecordsRepository) ReserveFirstRoom(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "hotel_rooms", query.Psql.Update("hotel_rooms").
		Set("is_reserved", true).
		Where(firstID("hotel_rooms")))
	return n, errors.Wrap(err, "reserving first room")
}

// DeleteLastRoom deletes the room with the highest id unless it is reserved.
func (r *RecordsRepository) DeleteLastRoom(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "hotel_rooms", query.Psql.Delete("hotel_rooms").
		Where(lastID("hotel_rooms")).
		Where(sq.Eq{"is_reserved": false}))
	return n, errors.Wrap(err, "deleting last room")
}

// ---------------------------------------------------------------------------
// characters

func (r *RecordsRepository) CreateCharacter(ctx context.Context, c *records.Character) error {
	id, err := insert(ctx, r.db, "characters", query.Psql.Insert("characters").
		Columns("name", "class_name", "level", "strength", "dexterity", "intelligence", "hit_points", "inventory").
		Values(c.Name, c.ClassName, c.Level, c.Strength, c.Dexterity, c.Intelligence, c.HitPoints, c.Inventory))
	if err != nil {
		return errors.Wrap(err, "creating character")
	}

	c.ID = id
	return nil
}

// LockCharacter locks and returns one character.
func (r *RecordsRepository) LockCharacter(ctx context.Context, id int64) (records.Character, bool, error) {
	b := query.Psql.Select("id", "name", "class_name", "level", "strength", "dexterity", "intelligence", "hit_points", "inventory").
		From("characters").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE")

	item, ok, err := selectFirst(ctx, r.db, "characters", b, func(row pgx.CollectableRow) (records.Character, error) {
		var c records.Character
		err := row.Scan(&c.ID, &c.Name, &c.ClassName, &c.Level, &c.Strength, &c.Dexterity, &c.Intelligence, &c.HitPoints, &c.Inventory)
		return c, err
	})
	return item, ok, errors.Wrap(err, "locking character")
}

func (r *RecordsRepository) DeleteCharacter(ctx context.Context, id int64) (int64, error) {
	n, err := exec(ctx, r.db, "characters", query.Psql.Delete("characters").Where(sq.Eq{"id": id}))
	return n, errors.Wrap(err, "deleting character")
}

// AdjustMages raises the level of every mage by 3 and lowers its
// intelligence by 7.
func (r *RecordsRepository) AdjustMages(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "characters", query.Psql.Update("characters").
		Set("level", sq.Expr("level + 3")).
		Set("intelligence", sq.Expr("intelligence - 7")).
		Where(sq.Eq{"class_name": records.ClassMage}))
	return n, errors.Wrap(err, "adjusting mages")
}

// AdjustWarriors halves the hit points of every warrior and lowers its
// dexterity by 4.
func (r *RecordsRepository) AdjustWarriors(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "characters", query.Psql.Update("characters").
		Set("hit_points", sq.Expr("hit_points / 2")).
		Set("dexterity", sq.Expr("dexterity - 4")).
		Where(sq.Eq{"class_name": records.ClassWarrior}))
	return n, errors.Wrap(err, "adjusting warriors")
}

// EmptyInventories clears the inventory of every assassin and scout.
func (r *RecordsRepository) EmptyInventories(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "characters", query.Psql.Update("characters").
		Set("inventory", records.EmptyInventory).
		Where(sq.Eq{"class_name": []records.Class{records.ClassAssassin, records.ClassScout}}))
	return n, errors.Wrap(err, "emptying inventories")
}

// Stat is a character attribute the grand updates can set.
type Stat string

const (
	StatDexterity    Stat = "dexterity"
	StatIntelligence Stat = "intelligence"
	StatStrength     Stat = "strength"
)

// SetStat sets stat to value on every character.
func (r *RecordsRepository) SetStat(ctx context.Context, stat Stat, value int) (int64, error) {
	n, err := exec(ctx, r.db, "characters", query.Psql.Update("characters").Set(string(stat), value))
	return n, errors.Wrapf(err, "setting %s", stat)
}

// DeleteEmptyCharacters deletes every character whose inventory was emptied.
func (r *RecordsRepository) DeleteEmptyCharacters(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.db, "characters", query.Psql.Delete("characters").
		Where(sq.Eq{"inventory": records.EmptyInventory}))
	return n, errors.Wrap(err, "deleting characters")
}
