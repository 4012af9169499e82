// Package commerce models customer profiles, the products they buy and
// their orders.
package commerce

import (
	"time"

	"github.com/deppfellow/labstore/internal/database"
	"github.com/deppfellow/labstore/internal/validation"
	"github.com/shopspring/decimal"
)

func init() {
	database.RegisterRelations(
		database.Relation{Table: "orders", Column: "profile_id", References: "profiles", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "order_products", Column: "order_id", References: "orders", OnDelete: database.OnDeleteCascade},
		database.Relation{Table: "order_products", Column: "product_id", References: "products", OnDelete: database.OnDeleteCascade},
	)
}

// LoyalOrderThreshold is the number of orders a profile must exceed to be
// a regular customer.
const LoyalOrderThreshold = 2

// DiscountProductThreshold is the number of products an open order must
// exceed to get the bulk discount.
const DiscountProductThreshold = 2

// DiscountFactor scales the total price of discounted orders.
var DiscountFactor = decimal.RequireFromString("0.9")

type Profile struct {
	ID           int64     `json:"id" db:"id"`
	FullName     string    `json:"fullName" db:"full_name" validate:"required,min=2,max=100"`
	Email        string    `json:"email" db:"email" validate:"required,email"`
	PhoneNumber  string    `json:"phoneNumber" db:"phone_number" validate:"required,max=15"`
	Address      string    `json:"address" db:"address" validate:"required"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreationDate time.Time `json:"creationDate" db:"creation_date"`
}

func (p Profile) Validate() error {
	return validation.Struct(p)
}

type Product struct {
	ID           int64           `json:"id" db:"id"`
	Name         string          `json:"name" db:"name" validate:"required,max=100"`
	Description  string          `json:"description" db:"description" validate:"required"`
	Price        decimal.Decimal `json:"price" db:"price" validate:"gte=0.01"`
	InStock      int             `json:"inStock" db:"in_stock" validate:"gte=0"`
	IsAvailable  bool            `json:"isAvailable" db:"is_available"`
	CreationDate time.Time       `json:"creationDate" db:"creation_date"`
}

func (p Product) Validate() error {
	return validation.Struct(p)
}

// Sell takes one unit out of stock. A product whose stock reaches zero
// stops being available.
func (p *Product) Sell() {
	p.InStock--
	if p.InStock == 0 {
		p.IsAvailable = false
	}
}

type Order struct {
	ID           int64           `json:"id" db:"id"`
	ProfileID    int64           `json:"profileId" db:"profile_id" validate:"required"`
	TotalPrice   decimal.Decimal `json:"totalPrice" db:"total_price" validate:"gte=0"`
	CreationDate time.Time       `json:"creationDate" db:"creation_date"`
	IsCompleted  bool            `json:"isCompleted" db:"is_completed"`
}

func (o Order) Validate() error {
	return validation.Struct(o)
}

// ProfileSummary is a profile with its number of orders.
type ProfileSummary struct {
	FullName    string
	Email       string
	PhoneNumber string
	OrdersCount int
}

// ProductSales is a product with the number of orders it appears in.
type ProductSales struct {
	Name      string
	TimesSold int
}
