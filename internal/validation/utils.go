package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/deppfellow/labstore/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validatable is implemented by entity types that know how to validate themselves.
//
// Typical pattern:
//   - Define an entity struct with validator tags (`validate:"required,email"`)
//   - Implement Validate() error that calls validation.Struct(e)
//   - Return CustomValidationErrors for rules tags cannot express
type Validatable interface {
	Validate() error
}

// Messenger lets an entity replace the default message for a field.
//
// Keys are "<field>.<tag>" (e.g. "age.min") or just "<field>" to cover
// every tag of that field. Field names are db column names.
type Messenger interface {
	ValidationMessages() map[string]string
}

// Choice is implemented by closed enumerations. The "choice" tag accepts
// a value only when Valid reports true.
type Choice interface {
	Valid() bool
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var (
	bgPhoneRegex = regexp.MustCompile(`^\+359\d{9}$`)

	instance *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator with the custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = newValidator()
	})
	return instance
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report db column names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("db"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	// decimal.Decimal is validated as float64 so min/max/gt work on money.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "phone_bg", func(fl validator.FieldLevel) bool {
		return bgPhoneRegex.MatchString(fl.Field().String())
	})

	mustRegister(v, "letters_spaces", func(fl validator.FieldLevel) bool {
		return IsLettersAndSpaces(fl.Field().String())
	})

	mustRegister(v, "choice", func(fl validator.FieldLevel) bool {
		c, ok := fl.Field().Interface().(Choice)
		return ok && c.Valid()
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// IsLettersAndSpaces reports whether s is non-empty and made only of
// letters and whitespace.
func IsLettersAndSpaces(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Struct validates v's tags and returns an *errs.Error of kind validation
// listing every offending field, or nil.
func Struct(v any) error {
	if err := Validator().Struct(v); err != nil {
		msg, fieldErrors := extractValidationError(v, err)
		return errs.NewValidationError(msg, fieldErrors)
	}
	return nil
}

// Check runs v.Validate() and normalizes whatever it returns into an
// *errs.Error of kind validation.
func Check(v Validatable) error {
	if msg, fieldErrors := validateStruct(v); fieldErrors != nil {
		return errs.NewValidationError(msg, fieldErrors)
	}
	return nil
}

// Merge combines a validation result with extra field errors (for example
// uniqueness checks that need the store). It returns nil when both are empty.
func Merge(err error, extra ...errs.FieldError) error {
	var fieldErrors []errs.FieldError

	var appErr *errs.Error
	if errors.As(err, &appErr) {
		fieldErrors = append(fieldErrors, appErr.Errors...)
	} else if err != nil {
		return err
	}

	fieldErrors = append(fieldErrors, extra...)
	if len(fieldErrors) == 0 {
		return nil
	}

	return errs.NewValidationError("Validation failed", fieldErrors)
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	err := v.Validate()
	if err == nil {
		return "", nil
	}

	var appErr *errs.Error
	if errors.As(err, &appErr) && appErr.Kind == errs.KindValidation {
		return appErr.Message, appErr.Errors
	}

	return extractValidationError(v, err)
}

func extractValidationError(v any, err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	overrides := map[string]string{}
	if m, ok := v.(Messenger); ok {
		overrides = m.ValidationMessages()
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		var customValidationErrors CustomValidationErrors
		if errors.As(err, &customValidationErrors) {
			for _, err := range customValidationErrors {
				fieldErrors = append(fieldErrors, errs.FieldError{
					Field: err.Field,
					Error: err.Message,
				})
			}
			return "Validation failed", fieldErrors
		}

		return "Validation failed", []errs.FieldError{{Field: "", Error: err.Error()}}
	}

	for _, err := range validationErrors {
		field := err.Field()

		if msg, ok := overrides[field+"."+err.Tag()]; ok {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: field, Error: msg})
			continue
		}
		if msg, ok := overrides[field]; ok {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: field, Error: msg})
			continue
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: defaultMessage(err),
		})
	}

	return "Validation failed", fieldErrors
}

// defaultMessage converts a validator.FieldError into a user-friendly message.
func defaultMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "min", "gte":
		// for strings: minimum length; for numbers: minimum value
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max", "lte":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "choice":
		return "is not a valid choice"

	case "email":
		return "must be a valid email address"

	case "url":
		return "must be a valid URL"

	case "number":
		return "must contain only digits"

	case "phone_bg":
		return "must start with '+359' followed by 9 digits"

	case "letters_spaces":
		return "can only contain letters and spaces"

	default:
		if err.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
		}
		return fmt.Sprintf("%s: %s", err.Field(), err.Tag())
	}
}
