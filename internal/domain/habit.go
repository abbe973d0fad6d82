package domain

import (
	"time"

	"github.com/alexanderramin/renzoku/internal/timeutil"
)

// Habit is a recurring item. Aggregate totals and streak fields are caches
// derived from the execution log and the completion set; they are never the
// source of truth and can always be recomputed.
type Habit struct {
	ID         string
	UserID     string
	Name       string
	ArchivedAt *time.Time

	// Aggregate statistics, mutated additively on completed stops.
	TodayTotal     time.Duration
	AllTimeTotal   time.Duration
	ExecutionCount int

	// Streak cache. CurrentStreak holds the stored value: the run of
	// consecutive days ending at yesterday. Today's completion is layered
	// on at read time, never persisted here.
	CurrentStreak     int
	LongestStreak     int
	LastCompletedDate *timeutil.Day

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HabitCompletion marks one habit as done on one JST calendar day.
// (habit_id, completed_date) is unique; a duplicate insert is a benign no-op.
type HabitCompletion struct {
	HabitID       string
	CompletedDate timeutil.Day
	CreatedAt     time.Time
}
