package services

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Error kinds returned by the services. Callers match them with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrStorage            = errors.New("storage failure")
)

// NewValidationError builds an error matching ErrValidation with a client-facing reason.
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%s %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// storageError keeps both ErrStorage and the driver error in the chain.
func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// isUniqueViolation reports whether err comes from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Primary result code only when extended codes are disabled.
		return strings.Contains(sqliteErr.Error(), "UNIQUE")
	}
	return false
}
