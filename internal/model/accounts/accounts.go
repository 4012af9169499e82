// Package accounts models users and the orders they place.
package accounts

import (
	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/validation"
)

func init() {
	database.RegisterRelations(
		database.Relation{Table: "user_orders", Column: "user_id", References: "users", OnDelete: database.OnDeleteCascade},
	)
}

// User names are unique.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username" validate:"required,max=50"`
	Email    string `json:"email" db:"email" validate:"required,email,max=100"`
}

func (u User) Validate() error {
	return validation.Struct(u)
}

// Order is deleted together with its user.
type Order struct {
	ID          int64 `json:"id" db:"id"`
	UserID      int64 `json:"userId" db:"user_id" validate:"required"`
	IsCompleted bool  `json:"isCompleted" db:"is_completed"`
}

func (o Order) Validate() error {
	return validation.Struct(o)
}

// OrderLine is an order with the name of the user who placed it.
type OrderLine struct {
	ID          int64
	IsCompleted bool
	Username    string
}
