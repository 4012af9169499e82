package media

import (
	"testing"

	"github.com/deppfellow/labstore/internal/errs"
	"github.com/deppfellow/labstore/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) *errs.Error {
	t.Helper()

	require.Error(t, err)
	require.True(t, errs.IsValidation(err))
	return err.(*errs.Error)
}

func TestCustomer_Validate(t *testing.T) {
	valid := Customer{
		Name:        "Svetlozar Georgiev",
		Age:         25,
		Email:       "svetlozar@gmail.com",
		PhoneNumber: "+359123456789",
		WebsiteURL:  "https://www.example.com",
	}
	require.NoError(t, valid.Validate())

	invalid := Customer{
		Name:        "Svetlozar Georgiev 123",
		Age:         17,
		Email:       "svetlozar.email",
		PhoneNumber: "+359 123456789",
		WebsiteURL:  "htp://invalid-url",
	}

	appErr := fieldErrors(t, invalid.Validate())
	assert.Equal(t, "Name can only contain letters and spaces", appErr.Field("name"))
	assert.Equal(t, "Age must be greater than or equal to 18", appErr.Field("age"))
	assert.Equal(t, "Enter a valid email address", appErr.Field("email"))
	assert.Equal(t, "Phone number must start with '+359' followed by 9 digits", appErr.Field("phone_number"))
}

func TestCatalog_Validate(t *testing.T) {
	media := model.Media{Title: "Short", Description: "Something", Genre: "Drama"}

	book := Book{Media: media, Author: "Abc", ISBN: "12345"}
	appErr := fieldErrors(t, book.Validate())
	assert.Equal(t, "Author must be at least 5 characters long", appErr.Field("author"))
	assert.Equal(t, "ISBN must be at least 6 characters long", appErr.Field("isbn"))

	movie := Movie{Media: media, Director: "Nolan"}
	appErr = fieldErrors(t, movie.Validate())
	assert.Equal(t, "Director must be at least 8 characters long", appErr.Field("director"))

	music := Music{Media: media, Artist: "Adele"}
	appErr = fieldErrors(t, music.Validate())
	assert.Equal(t, "Artist must be at least 9 characters long", appErr.Field("artist"))

	require.NoError(t, Book{Media: media, Author: "Frank Herbert", ISBN: "9780441013593"}.Validate())
}

func TestPricing(t *testing.T) {
	product := &Product{Name: "Phone", Price: decimal.RequireFromString("100")}
	weight := decimal.RequireFromString("2")

	regular := NewPricing(product, PricingRegular)
	assert.True(t, regular.Tax().Equal(decimal.RequireFromString("8")))
	assert.True(t, regular.ShippingCost(weight).Equal(decimal.RequireFromString("4")))
	assert.Equal(t, "Product: Phone", regular.FormatName())
	assert.True(t, regular.PriceWithoutDiscount().Equal(product.Price))

	discounted := NewPricing(product, PricingDiscounted)
	assert.True(t, discounted.Tax().Equal(decimal.RequireFromString("5")))
	assert.True(t, discounted.ShippingCost(weight).Equal(decimal.RequireFromString("3")))
	assert.Equal(t, "Discounted Product: Phone", discounted.FormatName())
	assert.True(t, discounted.PriceWithoutDiscount().Equal(decimal.RequireFromString("120")))

	// both views read the same row
	product.Price = decimal.RequireFromString("200")
	assert.True(t, regular.Tax().Equal(decimal.RequireFromString("16")))
	assert.Same(t, product, discounted.Product())
}

func TestSpiderHero_SwingFromBuildings(t *testing.T) {
	tests := []struct {
		name    string
		energy  int
		want    string
		changed bool
		after   int
	}{
		{"enough energy", 100, "Peter as Spider Hero swings from buildings using web shooters", true, 20},
		{"exactly drained", 80, "Peter as Spider Hero swings from buildings using web shooters", true, 1},
		{"out of fluid", 50, "Peter as Spider Hero is out of web shooter fluid", false, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hero := &Hero{Name: "Peter", HeroTitle: "Spidey", Energy: tt.energy}

			msg, changed := SpiderHero{hero}.SwingFromBuildings()
			assert.Equal(t, tt.want, msg)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.after, hero.Energy)
		})
	}
}

func TestFlashHero_RunAtSuperSpeed(t *testing.T) {
	tests := []struct {
		name    string
		energy  int
		want    string
		changed bool
		after   int
	}{
		{"enough energy", 100, "Barry as Flash Hero runs at lightning speed, saving the day", true, 35},
		{"exactly drained", 65, "Barry as Flash Hero runs at lightning speed, saving the day", true, 1},
		{"needs recharge", 64, "Barry as Flash Hero needs to recharge the speed force", false, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hero := &Hero{Name: "Barry", HeroTitle: "Flash", Energy: tt.energy}

			msg, changed := FlashHero{hero}.RunAtSuperSpeed()
			assert.Equal(t, tt.want, msg)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.after, hero.Energy)
		})
	}
}

func TestHero_RechargeEnergy(t *testing.T) {
	hero := &Hero{Energy: 40}

	hero.RechargeEnergy(30)
	assert.Equal(t, 70, hero.Energy)

	hero.RechargeEnergy(50)
	assert.Equal(t, MaxEnergy, hero.Energy)
}
