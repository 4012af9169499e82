// Package media models the media catalog exercise: customers, catalog
// items sharing the Media field group, products with their pricing views,
// heroes with their ability views and full-text searchable documents.
package media

import (
	"github.com/deppfellow/labstore/internal/model"
	"github.com/deppfellow/labstore/internal/validation"
	"github.com/shopspring/decimal"
)

// Customer carries the contact fields with the strictest validation of
// the catalog. Every rule has its own message.
type Customer struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name" validate:"required,max=100,letters_spaces"`
	Age         int    `json:"age" db:"age" validate:"gte=18"`
	Email       string `json:"email" db:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" db:"phone_number" validate:"required,max=13,phone_bg"`
	WebsiteURL  string `json:"websiteUrl" db:"website_url" validate:"required,url"`
}

func (c Customer) Validate() error {
	return validation.Struct(c)
}

func (c Customer) ValidationMessages() map[string]string {
	return map[string]string{
		"name.letters_spaces": "Name can only contain letters and spaces",
		"age":                 "Age must be greater than or equal to 18",
		"email.email":         "Enter a valid email address",
		"phone_number":        "Phone number must start with '+359' followed by 9 digits",
		"website_url.url":     "Enter a valid URL",
	}
}

// Book ISBNs are unique.
type Book struct {
	ID int64 `json:"id" db:"id"`
	model.Media
	Author string `json:"author" db:"author" validate:"required,min=5,max=100"`
	ISBN   string `json:"isbn" db:"isbn" validate:"required,min=6,max=20"`
}

func (b Book) Validate() error {
	return validation.Struct(b)
}

func (b Book) ValidationMessages() map[string]string {
	return map[string]string{
		"author.min": "Author must be at least 5 characters long",
		"isbn.min":   "ISBN must be at least 6 characters long",
	}
}

type Movie struct {
	ID int64 `json:"id" db:"id"`
	model.Media
	Director string `json:"director" db:"director" validate:"required,min=8,max=100"`
}

func (m Movie) Validate() error {
	return validation.Struct(m)
}

func (m Movie) ValidationMessages() map[string]string {
	return map[string]string{
		"director.min": "Director must be at least 8 characters long",
	}
}

type Music struct {
	ID int64 `json:"id" db:"id"`
	model.Media
	Artist string `json:"artist" db:"artist" validate:"required,min=9,max=100"`
}

func (m Music) Validate() error {
	return validation.Struct(m)
}

func (m Music) ValidationMessages() map[string]string {
	return map[string]string{
		"artist.min": "Artist must be at least 9 characters long",
	}
}

// Product is priced through a Pricing view.
type Product struct {
	ID    int64           `json:"id" db:"id"`
	Name  string          `json:"name" db:"name" validate:"required,max=100"`
	Price decimal.Decimal `json:"price" db:"price" validate:"gte=0"`
}

func (p Product) Validate() error {
	return validation.Struct(p)
}

// Document is searchable by its title and content once its search vector
// has been refreshed.
type Document struct {
	ID      int64  `json:"id" db:"id"`
	Title   string `json:"title" db:"title" validate:"required,max=200"`
	Content string `json:"content" db:"content" validate:"required"`
}

func (d Document) Validate() error {
	return validation.Struct(d)
}
