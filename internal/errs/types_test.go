package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := NewValidationError("Validation failed", []FieldError{
		{Field: "age", Error: "Age must be greater than or equal to 18"},
		{Field: "email", Error: "Enter a valid email address"},
	})

	assert.Equal(t,
		"Validation failed: age: Age must be greater than or equal to 18; email: Enter a valid email address",
		err.Error())
	assert.Equal(t, "Enter a valid email address", err.Field("email"))
	assert.Empty(t, err.Field("name"))
}

func TestKindHelpers(t *testing.T) {
	wrapped := fmt.Errorf("loading book: %w", NewNotFoundError("Book not found", true, nil))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, KindNotFound, KindOf(wrapped))

	assert.True(t, IsConstraint(NewConstraintError("dup", true, nil, nil)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewInternalError())

	assert.True(t, errors.Is(err, &Error{}))
	assert.False(t, errors.Is(errors.New("plain"), &Error{}))
}

func TestWithMessage(t *testing.T) {
	code := "BOOK_NOT_FOUND"
	base := NewNotFoundError("Book not found", false, &code)
	copied := base.WithMessage("Nothing here")

	assert.Equal(t, "Book not found", base.Message)
	assert.Equal(t, "Nothing here", copied.Message)
	assert.Equal(t, "BOOK_NOT_FOUND", copied.Code)
	assert.Equal(t, KindNotFound, copied.Kind)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("Not Found"))
	assert.Equal(t, "VALIDATION_FAILED", MakeUpperCaseWithUnderscores("validation failed"))
}
