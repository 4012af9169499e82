// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (field-level validation errors, store constraint errors, not-found
// conditions) so callers receive meaningful, actionable, and consistent
// error values that play nicely with the standard errors package.
package errs
