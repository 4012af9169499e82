package errs

import (
	"errors"
	"strings"
)

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "error": "Enter a valid email address" }
type FieldError struct {
	// Field is the column/field name the error relates to (e.g. "email").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// Kind classifies an Error so callers can decide how to react without
// inspecting messages.
type Kind string

const (
	// KindValidation means one or more fields failed validation before
	// anything was sent to the store.
	KindValidation Kind = "validation"

	// KindNotFound means a single-row lookup matched nothing. Operations
	// treat it as the normal "no data" path.
	KindNotFound Kind = "not_found"

	// KindConstraint means the store rejected a write (unique, foreign key,
	// not-null or check violation).
	KindConstraint Kind = "constraint"

	// KindInternal covers everything else.
	KindInternal Kind = "internal"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// Error is the main custom error type of the module.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BOOK_ALREADY_EXISTS").
//   - Message: human-friendly message.
//   - Kind: the error category.
//   - Override: whether the message is safe to show to an end user as-is.
//   - Errors: list of per-field errors (validation).
type Error struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Kind     Kind   `json:"kind"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors.
	Errors []FieldError `json:"errors"`

	// cause is the underlying driver/store error, kept for logs and
	// errors.As lookups.
	cause error
}

// Error makes *Error satisfy the built-in `error` interface.
//
// Field errors are appended so a logged validation failure names every
// offending field.
func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		if e.Kind == KindInternal && e.cause != nil {
			return e.Message + ": " + e.cause.Error()
		}
		return e.Message
	}

	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Error)
	}

	return e.Message + ": " + strings.Join(parts, "; ")
}

// Is customizes how errors.Is(...) treats Error.
//
// It only checks whether the target is the same *type* (*Error); Code,
// Kind and the rest are not compared.
func (e *Error) Is(target error) bool {
	_, ok := target.(*Error)

	return ok
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Wrap returns a *copy* of this Error carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.cause = cause
	return &c
}

// WithMessage returns a *copy* of this Error with Message replaced.
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		Code:     e.Code,
		Message:  message,
		Kind:     e.Kind,
		Override: e.Override,
		Errors:   e.Errors,
		cause:    e.cause,
	}
}

// Field returns the message recorded for field, or "" when the field passed.
func (e *Error) Field(field string) string {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return fe.Error
		}
	}
	return ""
}

// KindOf reports the Kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

// IsConstraint reports whether err is a store constraint violation.
func IsConstraint(err error) bool {
	return err != nil && KindOf(err) == KindConstraint
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Not Found" -> "NOT_FOUND"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
