package errs

// NewValidationError creates a validation Error carrying per-field errors.
func NewValidationError(message string, errors []FieldError) *Error {
	return &Error{
		Code:     MakeUpperCaseWithUnderscores("validation failed"),
		Message:  message,
		Kind:     KindValidation,
		Override: true,
		Errors:   errors,
	}
}

// NewNotFoundError creates a not-found Error.
//
// code is optional; nil means "NOT_FOUND".
func NewNotFoundError(message string, override bool, code *string) *Error {
	formattedCode := MakeUpperCaseWithUnderscores("not found")

	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Code:     formattedCode,
		Message:  message,
		Kind:     KindNotFound,
		Override: override,
	}
}

// NewConstraintError creates an Error for a write the store refused.
//
// code is optional; nil means "CONSTRAINT_VIOLATION". errors may carry the
// offending column when the store reported it.
func NewConstraintError(message string, override bool, code *string, errors []FieldError) *Error {
	formattedCode := MakeUpperCaseWithUnderscores("constraint violation")

	// The caller is expected to have formatted a custom code already.
	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Code:     formattedCode,
		Message:  message,
		Kind:     KindConstraint,
		Override: override,
		Errors:   errors,
	}
}

// NewInternalError creates an internal Error.
//
// The message is generic on purpose: the real cause belongs in logs, not
// in values handed to callers.
func NewInternalError() *Error {
	return &Error{
		Code:     MakeUpperCaseWithUnderscores("internal error"),
		Message:  "An error occurred while processing your request",
		Kind:     KindInternal,
		Override: false,
	}
}

// ValidationError converts a generic validation error into a validation Error.
//
// This is a helper so you can do:
//
//	return errs.ValidationError(err)
func ValidationError(err error) *Error {
	return NewValidationError("Validation failed: "+err.Error(), nil)
}
