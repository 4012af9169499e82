// Package validation contains the logic for validating
// entities before they are written to the store.
//
// It uses the `validator` library to enforce rules (like
// required fields, email formats, ranges or closed choice sets)
// defined in struct tags and extracts validation errors into
// per-field errs.FieldError values.
package validation
