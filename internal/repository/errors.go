// Package repository implements MySQL-backed storage for the theatre
// service. This file holds error types shared across repositories:
// sentinel values that handlers translate into HTTP status codes, and
// ValidationError, which carries the offending field name alongside
// the message so handlers can produce field-keyed error bodies.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ValidationError reports a value that violates a domain rule, such as
// a seat coordinate outside the hall grid or a seat that is already
// ticketed. Handlers should translate it into an HTTP 400 response
// keyed by Field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// isDuplicateEntry reports whether err is a MySQL duplicate-key error
// (code 1062), raised when an INSERT or UPDATE violates a UNIQUE
// constraint.
func isDuplicateEntry(err error) bool {
	var my *mysql.MySQLError
	return errors.As(err, &my) && my.Number == 1062
}
