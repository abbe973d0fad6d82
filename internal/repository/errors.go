package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// match it with errors.Is after the repository wraps it with context.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint, such as marking the same habit day complete twice.
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation reports whether err is a SQLite uniqueness failure.
// modernc.org/sqlite surfaces these as plain errors, so the constraint
// message is the only stable signal.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
