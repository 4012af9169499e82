// Package space models astronauts, spacecraft and missions.
package space

import (
	"time"

	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/model"
	"github.com/deppfellow/labstore/internal/validation"
)

func init() {
	database.RegisterRelations(
		database.Relation{Table: "missions", Column: "spacecraft_id", References: "spacecrafts", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "missions", Column: "commander_id", References: "astronauts", OnDelete: database.OnDeleteSetNull},
		database.Relation{Table: "mission_astronauts", Column: "mission_id", References: "missions", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "mission_astronauts", Column: "astronaut_id", References: "astronauts", OnDelete: database.OnDeleteCascade},
	)
}

// Status is the closed set of mission states.
type Status string

const (
	StatusPlanned   Status = "Planned"
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// NoData is the result of every space report that has nothing to show.
const NoData = "No data."

// WeightReduction is taken off each spacecraft planned for a mission.
const WeightReduction = 200.0

// Astronaut phone numbers are unique and made of digits only.
type Astronaut struct {
	ID int64 `json:"id" db:"id"`
	model.Named
	PhoneNumber string     `json:"phoneNumber" db:"phone_number" validate:"required,number,max=15"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	DateOfBirth *time.Time `json:"dateOfBirth" db:"date_of_birth"`
	Spacewalks  int        `json:"spacewalks" db:"spacewalks" validate:"gte=0"`
	model.Timestamps
}

func (a Astronaut) Validate() error {
	return validation.Struct(a)
}

func (a Astronaut) ValidationMessages() map[string]string {
	return map[string]string{
		"phone_number.number": "Phone number must contain only digits.",
	}
}

// Status is how listings describe the active flag.
func (a Astronaut) Status() string {
	if a.IsActive {
		return "Active"
	}
	return "Inactive"
}

func (a Astronaut) String() string {
	return a.Name
}

type Spacecraft struct {
	ID int64 `json:"id" db:"id"`
	model.Named
	Manufacturer string    `json:"manufacturer" db:"manufacturer" validate:"required,max=100"`
	Capacity     int       `json:"capacity" db:"capacity" validate:"gte=1"`
	Weight       float64   `json:"weight" db:"weight" validate:"gte=0"`
	LaunchDate   time.Time `json:"launchDate" db:"launch_date" validate:"required"`
	model.Timestamps
}

func (s Spacecraft) Validate() error {
	return validation.Struct(s)
}

func (s Spacecraft) String() string {
	return s.Name
}

// Mission flies one spacecraft (deleted with it) and has an optional
// commander (cleared when the astronaut is deleted).
type Mission struct {
	ID int64 `json:"id" db:"id"`
	model.Named
	Description  string    `json:"description" db:"description"`
	Status       Status    `json:"status" db:"status" validate:"choice"`
	LaunchDate   time.Time `json:"launchDate" db:"launch_date" validate:"required"`
	SpacecraftID int64     `json:"spacecraftId" db:"spacecraft_id" validate:"required"`
	CommanderID  *int64    `json:"commanderId" db:"commander_id"`
	model.Timestamps
}

// ApplyDefaults sets the status of a mission created without one.
func (m *Mission) ApplyDefaults() {
	if m.Status == "" {
		m.Status = StatusPlanned
	}
}

func (m Mission) Validate() error {
	return validation.Struct(m)
}

func (m Mission) String() string {
	return m.Name
}

// RankedAstronaut is an astronaut with a mission count.
type RankedAstronaut struct {
	Name  string
	Count int
}

// CompletedMission is the detail of the most recently launched completed mission.
type CompletedMission struct {
	ID              int64
	Name            string
	Commander       string
	HasCommander    bool
	Astronauts      []string
	Spacecraft      string
	TotalSpacewalks int
}

// SpacecraftUsage is the most used spacecraft with its mission statistics.
type SpacecraftUsage struct {
	ID                int64
	Name              string
	Manufacturer      string
	MissionsCount     int
	AstronautsOnBoard int
}
