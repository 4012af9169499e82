package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/labstore/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// If err can be unwrapped into *sqlerr.Error its Code is returned,
// otherwise Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our custom sqlerr.Error.
//
// SQLSTATE and Severity are mapped into our enums for easier switching.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode creates consistent "application error codes" from DB errors.
//
// Output format:
//
//	<DOMAIN>_<ACTION>
//
// Example:
//
//	books + UniqueViolation => BOOK_ALREADY_EXISTS
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	// Naive singularization: "BOOKS" -> "BOOK".
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces a readable message from table/column info.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced later when the column can be inferred.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = humanizeText(extractColumnForCheckViolation(sqlErr.TableName, sqlErr.ConstraintName))
		}
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName tries to infer an entity name from table/column data.
//
// Priority rules:
//  1. If column ends with "_id", use that base name ("director_id" -> "Director").
//  2. Otherwise use table name, singularized if it ends with "s".
//  3. Otherwise fallback to "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case ("first_name" -> "First Name").
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// constraintColumn strips Postgres' default "<table>_" prefix and the
// given suffix from a constraint name, leaving the column
// ("astronauts_phone_number_key" on astronauts -> "phone_number").
func constraintColumn(tableName, constraintName, suffix string) string {
	if tableName == "" || !strings.HasSuffix(constraintName, suffix) {
		return ""
	}
	column, ok := strings.CutPrefix(strings.TrimSuffix(constraintName, suffix), tableName+"_")
	if !ok {
		return ""
	}
	return column
}

// extractColumnForUniqueViolation tries to infer the column name from a unique constraint name.
//
// It supports two conventions:
//
//  1. "unique_<table>_<column>"     (unique_books_isbn -> "isbn")
//  2. "<table>_<column>_(key|ukey)" (books_isbn_key -> "isbn")
func extractColumnForUniqueViolation(tableName, constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if column, ok := strings.CutPrefix(constraintName, "unique_"+tableName+"_"); ok && tableName != "" {
		return column
	}

	for _, suffix := range []string{"_key", "_ukey"} {
		if column := constraintColumn(tableName, constraintName, suffix); column != "" {
			return column
		}
	}

	return ""
}

// extractColumnForCheckViolation infers the column from Postgres' default
// CHECK constraint naming, "<table>_<column>_check".
func extractColumnForCheckViolation(tableName, constraintName string) string {
	return constraintColumn(tableName, constraintName, "_check")
}

const tablePrefix = "table:"

// WithTable annotates err with the table it came from, so not-found
// conditions can name the entity. nil stays nil.
func WithTable(table string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s%s: %w", tablePrefix, table, err)
}

// HandleError converts a low-level database error into an application-level error.
//
// Output:
//   - If already *errs.Error: returned unchanged
//   - If pgconn.PgError: mapped into a constraint or internal errs.Error
//   - If ErrNoRows: mapped to a not-found errs.Error
//   - Otherwise: internal errs.Error
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	// Prevents double-wrapping and preserves the exact error shape.
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewConstraintError(userMessage, false, &errorCode, nil).Wrap(err)

		case UniqueViolation:
			columnName := extractColumnForUniqueViolation(sqlErr.TableName, sqlErr.ConstraintName)
			var fieldErrors []errs.FieldError
			if columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
				fieldErrors = []errs.FieldError{{Field: columnName, Error: "already exists"}}
			}
			return errs.NewConstraintError(userMessage, true, &errorCode, fieldErrors).Wrap(err)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewConstraintError(userMessage, true, &errorCode, fieldErrors).Wrap(err)

		case CheckViolation:
			columnName := sqlErr.ColumnName
			if columnName == "" {
				columnName = extractColumnForCheckViolation(sqlErr.TableName, sqlErr.ConstraintName)
			}
			var fieldErrors []errs.FieldError
			if columnName != "" {
				fieldErrors = []errs.FieldError{{Field: strings.ToLower(columnName), Error: "is invalid"}}
			}
			return errs.NewConstraintError(userMessage, true, &errorCode, fieldErrors).Wrap(err)

		default:
			return errs.NewInternalError().Wrap(err)
		}
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		errMsg := err.Error()
		if strings.Contains(errMsg, tablePrefix) {
			table := strings.Split(strings.Split(errMsg, tablePrefix)[1], ":")[0]
			entityName := getEntityName(table, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", entityName), true, nil).Wrap(err)
		}
		return errs.NewNotFoundError("Resource not found", false, nil).Wrap(err)
	}

	return errs.NewInternalError().Wrap(err)
}
