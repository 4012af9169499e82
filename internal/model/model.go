// Package model holds the field groups shared by the entity packages.
//
// A field group is a plain struct embedded into an entity. Its columns
// become columns of the entity's own table; a field group is never stored
// on its own. validator walks embedded structs, so the tags declared here
// are enforced on every entity that embeds them.
package model

import (
	"time"
)

// DefaultBirthDate is used for Person rows created without a birth date.
var DefaultBirthDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultNationality is used for Person rows created without a nationality.
const DefaultNationality = "Unknown"

// Person is shared by people-like entities (directors, actors).
type Person struct {
	FullName    string    `json:"fullName" db:"full_name" validate:"required,min=2,max=120"`
	BirthDate   time.Time `json:"birthDate" db:"birth_date"`
	Nationality string    `json:"nationality" db:"nationality" validate:"max=50"`
}

// ApplyDefaults fills in the store defaults for empty fields.
func (p *Person) ApplyDefaults() {
	if p.BirthDate.IsZero() {
		p.BirthDate = DefaultBirthDate
	}
	if p.Nationality == "" {
		p.Nationality = DefaultNationality
	}
}

// Named is a display name between 2 and 120 characters.
type Named struct {
	Name string `json:"name" db:"name" validate:"required,min=2,max=120"`
}

// LastUpdated is maintained by the store: a trigger refreshes it on every write.
type LastUpdated struct {
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`
}

// Timestamps is maintained by the store: a trigger refreshes updated_at on every write.
type Timestamps struct {
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Awarded marks entities that can win awards.
type Awarded struct {
	IsAwarded bool `json:"isAwarded" db:"is_awarded"`
}

// Media is the shape shared by catalog items (books, movies, music).
//
// Listings of media are ordered by MediaOrdering.
type Media struct {
	Title       string    `json:"title" db:"title" validate:"required,max=100"`
	Description string    `json:"description" db:"description" validate:"required"`
	Genre       string    `json:"genre" db:"genre" validate:"required,max=50"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// MediaOrdering is the default ordering of every media listing:
// newest first, then by title.
var MediaOrdering = []string{"created_at DESC", "title ASC"}
