// Package records holds the standalone record types of the data
// operations exercises: pets, artifacts, locations, cars, tasks, hotel
// rooms and game characters. None of them reference each other.
package records

import (
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/labstore/internal/errs"
	"github.com/deppfellow/labstore/internal/validation"
	"github.com/shopspring/decimal"
)

type Pet struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name" validate:"required,max=40"`
	Species string `json:"species" db:"species" validate:"required,max=40"`
}

func (p Pet) Validate() error {
	return validation.Struct(p)
}

// MagicRenameAge is the age an artifact must exceed before it can be renamed.
const MagicRenameAge = 250

type Artifact struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name" validate:"required,max=70"`
	Origin      string `json:"origin" db:"origin" validate:"required,max=70"`
	Age         int    `json:"age" db:"age" validate:"gte=0"`
	Description string `json:"description" db:"description"`
	IsMagical   bool   `json:"isMagical" db:"is_magical"`
}

func (a Artifact) Validate() error {
	return validation.Struct(a)
}

// CanBeRenamed reports whether the artifact is magical and old enough.
func (a Artifact) CanBeRenamed() bool {
	return a.IsMagical && a.Age > MagicRenameAge
}

type Location struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name" validate:"required,max=100"`
	Region      string `json:"region" db:"region" validate:"required,max=50"`
	Population  int    `json:"population" db:"population" validate:"gte=0"`
	Description string `json:"description" db:"description"`
	IsCapital   bool   `json:"isCapital" db:"is_capital"`
}

func (l Location) Validate() error {
	return validation.Struct(l)
}

func (l Location) String() string {
	return fmt.Sprintf("%s has a population of %d!", l.Name, l.Population)
}

type Car struct {
	ID                int64           `json:"id" db:"id"`
	Model             string          `json:"model" db:"model" validate:"required,max=40"`
	Year              int             `json:"year" db:"year" validate:"gte=0"`
	Color             string          `json:"color" db:"color" validate:"required,max=40"`
	Price             decimal.Decimal `json:"price" db:"price" validate:"gte=0"`
	PriceWithDiscount decimal.Decimal `json:"priceWithDiscount" db:"price_with_discount" validate:"gte=0"`
}

func (c Car) Validate() error {
	return validation.Struct(c)
}

// YearDiscount is the discount rate of the car: the sum of the digits of
// its year, as a percentage.
func (c Car) YearDiscount() decimal.Decimal {
	sum := 0
	for _, digit := range strconv.Itoa(c.Year) {
		if digit >= '0' && digit <= '9' {
			sum += int(digit - '0')
		}
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(100))
}

// ApplyDiscount recomputes PriceWithDiscount from Price and YearDiscount,
// rounded to cents.
func (c *Car) ApplyDiscount() {
	discount := c.Price.Mul(c.YearDiscount())
	c.PriceWithDiscount = c.Price.Sub(discount).Round(2)
}

// RecentCar is a car built after RecentCarYear with its discounted price.
type RecentCar struct {
	Model             string          `json:"model"`
	PriceWithDiscount decimal.Decimal `json:"priceWithDiscount"`
}

// RecentCarYear is the year a car must be built after to count as recent.
const RecentCarYear = 2020

// DueDateLayout formats task due dates.
const DueDateLayout = "2006-01-02"

type Task struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title" validate:"required,max=25"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"dueDate" db:"due_date" validate:"required"`
	IsFinished  bool      `json:"isFinished" db:"is_finished"`
}

func (t Task) Validate() error {
	return validation.Struct(t)
}

func (t Task) String() string {
	return fmt.Sprintf("Task - %s needs to be done until %s!", t.Title, t.DueDate.Format(DueDateLayout))
}

// DecodeShift is how many code points Decode moves each character down.
const DecodeShift = 3

// Decode shifts every character of text DecodeShift code points down.
// Text holding a character below the shift has no decoding.
func Decode(text string) (string, error) {
	runes := []rune(text)
	for i, r := range runes {
		if r < DecodeShift {
			return "", errs.NewValidationError("Validation failed", []errs.FieldError{
				{Field: "text", Error: fmt.Sprintf("Character %U at position %d cannot be decoded", r, i)},
			})
		}
		runes[i] = r - DecodeShift
	}
	return string(runes), nil
}

// RoomType is the closed set of hotel room types.
type RoomType string

const (
	RoomStandard RoomType = "Standard"
	RoomDeluxe   RoomType = "Deluxe"
	RoomSuite    RoomType = "Suite"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomStandard, RoomDeluxe, RoomSuite:
		return true
	}
	return false
}

func (t RoomType) String() string {
	return string(t)
}

type HotelRoom struct {
	ID            int64           `json:"id" db:"id"`
	RoomNumber    int             `json:"roomNumber" db:"room_number" validate:"gte=0"`
	RoomType      RoomType        `json:"roomType" db:"room_type" validate:"choice"`
	Capacity      int             `json:"capacity" db:"capacity" validate:"gte=0"`
	Amenities     string          `json:"amenities" db:"amenities"`
	PricePerNight decimal.Decimal `json:"pricePerNight" db:"price_per_night" validate:"gte=0"`
	IsReserved    bool            `json:"isReserved" db:"is_reserved"`
}

func (r HotelRoom) Validate() error {
	return validation.Struct(r)
}

func (r HotelRoom) String() string {
	return fmt.Sprintf("%s room with number %d costs %s$ per night!", r.RoomType, r.RoomNumber, r.PricePerNight.StringFixed(2))
}

// IncreaseCapacities applies the capacity increase to rooms ordered by id
// and returns the rooms it changed.
//
// Unreserved rooms are skipped. The first reserved room grows by its own
// id; every later reserved room grows by the new capacity of the reserved
// room before it.
func IncreaseCapacities(rooms []HotelRoom) []HotelRoom {
	var changed []HotelRoom
	previous := 0

	for _, room := range rooms {
		if !room.IsReserved {
			continue
		}

		if previous != 0 {
			room.Capacity += previous
		} else {
			room.Capacity += int(room.ID)
		}
		previous = room.Capacity

		changed = append(changed, room)
	}
	return changed
}

// Class is the closed set of character classes.
type Class string

const (
	ClassMage     Class = "Mage"
	ClassWarrior  Class = "Warrior"
	ClassAssassin Class = "Assassin"
	ClassScout    Class = "Scout"
	ClassFusion   Class = "Fusion"
)

func (c Class) Valid() bool {
	switch c {
	case ClassMage, ClassWarrior, ClassAssassin, ClassScout, ClassFusion:
		return true
	}
	return false
}

func (c Class) String() string {
	return string(c)
}

// EmptyInventory marks characters whose inventory was cleared.
const EmptyInventory = "The inventory is empty"

const (
	elvenInventory  = "Bow of the Elven Lords, Amulet of Eternal Wisdom"
	dragonInventory = "Dragon Scale Armor, Excalibur"
)

type Character struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name" validate:"required,max=100"`
	ClassName    Class  `json:"className" db:"class_name" validate:"choice"`
	Level        int    `json:"level" db:"level" validate:"gte=0"`
	Strength     int    `json:"strength" db:"strength" validate:"gte=0"`
	Dexterity    int    `json:"dexterity" db:"dexterity" validate:"gte=0"`
	Intelligence int    `json:"intelligence" db:"intelligence" validate:"gte=0"`
	HitPoints    int    `json:"hitPoints" db:"hit_points" validate:"gte=0"`
	Inventory    string `json:"inventory" db:"inventory" validate:"max=100"`
}

func (c Character) Validate() error {
	return validation.Struct(c)
}

// Fuse combines two characters into a Fusion character. The float
// multipliers are truncated toward zero.
func Fuse(first, second Character) Character {
	inventory := dragonInventory
	if first.ClassName == ClassMage || first.ClassName == ClassScout {
		inventory = elvenInventory
	}

	return Character{
		Name:         first.Name + " " + second.Name,
		ClassName:    ClassFusion,
		Level:        (first.Level + second.Level) / 2,
		Strength:     int(float64(first.Strength+second.Strength) * 1.2),
		Dexterity:    int(float64(first.Dexterity+second.Dexterity) * 1.4),
		Intelligence: int(float64(first.Intelligence+second.Intelligence) * 1.5),
		HitPoints:    first.HitPoints + second.HitPoints,
		Inventory:    inventory,
	}
}
