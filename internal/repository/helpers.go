package repository

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/renzoku/internal/timeutil"
)

// parseNullableTime parses a sql.NullString into a *time.Time using RFC3339.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite
// storage. Returns nil (SQL NULL) if the pointer is nil.
func nullableTimeToString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parseNullableDay converts a sql.NullString into a *timeutil.Day.
func parseNullableDay(s sql.NullString) *timeutil.Day {
	if !s.Valid || s.String == "" {
		return nil
	}
	d, err := timeutil.ParseDay(s.String)
	if err != nil {
		return nil
	}
	return &d
}

// nullableDayToString converts a *timeutil.Day to a SQLite value.
func nullableDayToString(d *timeutil.Day) interface{} {
	if d == nil {
		return nil
	}
	return string(*d)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// formatTime stores timestamps as RFC3339 UTC text.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
