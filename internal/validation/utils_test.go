package validation

import (
	"errors"
	"testing"

	"github.com/deppfellow/labstore/internal/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func (c color) Valid() bool {
	return c == "red" || c == "green"
}

type sample struct {
	Name  string          `db:"name" validate:"required,letters_spaces"`
	Phone string          `db:"phone_number" validate:"phone_bg"`
	Age   int             `db:"age" validate:"gte=18"`
	Price decimal.Decimal `db:"price" validate:"gte=0.01"`
	Color color           `db:"color" validate:"choice"`
	Code  string          `db:"code" validate:"number"`
}

func (s sample) Validate() error {
	return Struct(s)
}

func (s sample) ValidationMessages() map[string]string {
	return map[string]string{
		"age.gte": "Age must be greater than or equal to 18",
	}
}

func validSample() sample {
	return sample{
		Name:  "Ivan Petrov",
		Phone: "+359123456789",
		Age:   30,
		Price: decimal.RequireFromString("9.99"),
		Color: "red",
		Code:  "0042",
	}
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(validSample()))
	assert.NoError(t, Check(validSample()))
}

func TestStruct_CollectsEveryField(t *testing.T) {
	s := sample{
		Name:  "Ivan 2",
		Phone: "0888123456",
		Age:   17,
		Price: decimal.Zero,
		Color: "blue",
		Code:  "12a",
	}

	err := Struct(s)
	require.Error(t, err)
	require.True(t, errs.IsValidation(err))

	appErr := err.(*errs.Error)
	assert.Len(t, appErr.Errors, 6)
	assert.Equal(t, "can only contain letters and spaces", appErr.Field("name"))
	assert.Equal(t, "must start with '+359' followed by 9 digits", appErr.Field("phone_number"))
	assert.Equal(t, "Age must be greater than or equal to 18", appErr.Field("age"))
	assert.Equal(t, "must be at least 0.01", appErr.Field("price"))
	assert.Equal(t, "is not a valid choice", appErr.Field("color"))
	assert.Equal(t, "must contain only digits", appErr.Field("code"))
}

type custom struct{}

func (custom) Validate() error {
	return CustomValidationErrors{{Field: "isbn", Message: "ISBN already taken"}}
}

func TestCheck_CustomErrors(t *testing.T) {
	err := Check(custom{})
	require.True(t, errs.IsValidation(err))
	assert.Equal(t, "ISBN already taken", err.(*errs.Error).Field("isbn"))
}

func TestMerge(t *testing.T) {
	assert.NoError(t, Merge(nil))

	merged := Merge(nil, errs.FieldError{Field: "email", Error: "already exists"})
	require.True(t, errs.IsValidation(merged))
	assert.Equal(t, "already exists", merged.(*errs.Error).Field("email"))

	merged = Merge(Struct(sample{Name: "Ok", Phone: "+359123456789", Age: 5, Price: decimal.NewFromInt(1), Color: "red", Code: "1"}),
		errs.FieldError{Field: "email", Error: "already exists"})
	assert.Len(t, merged.(*errs.Error).Errors, 2)

	plain := errors.New("store down")
	assert.Same(t, plain, Merge(plain))
}

func TestIsLettersAndSpaces(t *testing.T) {
	assert.True(t, IsLettersAndSpaces("Ана Мария"))
	assert.False(t, IsLettersAndSpaces(""))
	assert.False(t, IsLettersAndSpaces("R2 D2"))
}
