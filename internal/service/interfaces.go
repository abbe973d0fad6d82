package service

import (
	"context"
	"time"

	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/timeutil"
)

// StopResult reports the outcome of terminating a session.
type StopResult struct {
	LogID       string
	Duration    time.Duration
	IsCompleted bool
}

// ToggleResult is the typed result of a completion toggle. Error is empty
// on a clean toggle; ALREADY_COMPLETED marks the benign duplicate no-op.
type ToggleResult struct {
	Success bool
	Error   domain.ErrorCode
	Message string
}

// HabitWithCompletion pairs a habit with its completion flag for one date.
type HabitWithCompletion struct {
	Habit       *domain.Habit
	IsCompleted bool
}

// SessionService is the session lifecycle controller: it owns every
// transition of the Idle → Running ⇄ Paused → Stopped state machine and is
// the only writer of active sessions and execution logs.
type SessionService interface {
	Start(ctx context.Context, userID, itemID string, kind domain.ExecutionKind, device domain.DeviceType) (*domain.ActiveSession, error)
	Pause(ctx context.Context, userID, itemID string) (*domain.ActiveSession, error)
	Resume(ctx context.Context, userID, itemID string, device domain.DeviceType) (*domain.ActiveSession, error)
	// Stop converts the active session into an execution log entry and
	// releases the slot in one transaction. It is NOT idempotent: retrying
	// a failed call without checking for an existing log entry can
	// double-write.
	Stop(ctx context.Context, userID, itemID string, isCompleted bool) (*StopResult, error)
	// ForceCleanup removes the slot regardless of which device owns it.
	// Only call it after the user has confirmed the takeover.
	ForceCleanup(ctx context.Context, userID, itemID string) error
	Current(ctx context.Context, userID, itemID string) (*domain.ActiveSession, error)
	ListActive(ctx context.Context, userID string) ([]*domain.ActiveSession, error)
	// History lists the item's execution log in start order.
	History(ctx context.Context, userID, itemID string) ([]*domain.ExecutionLog, error)
}

// HabitService owns habit records, their completion set, and the cached
// streak state derived from it.
type HabitService interface {
	AddHabit(ctx context.Context, userID, name string) (*domain.Habit, error)
	ListHabits(ctx context.Context, userID string, includeArchived bool) ([]*domain.Habit, error)
	ArchiveHabit(ctx context.Context, userID, habitID string) error
	// CompleteHabit marks today complete. Marking an already-complete day
	// is a benign no-op reported as ALREADY_COMPLETED.
	CompleteHabit(ctx context.Context, userID, habitID string) ToggleResult
	// ToggleHabitCompletion marks or unmarks the given date (today when
	// nil) and rewrites the cached streak from a full recomputation.
	ToggleHabitCompletion(ctx context.Context, userID, habitID string, completed bool, date *timeutil.Day) ToggleResult
	GetHabitsWithCompletionForDate(ctx context.Context, userID string, date timeutil.Day) ([]HabitWithCompletion, error)
	// GetDisplayStreak layers today's completion onto the stored streak at
	// read time.
	GetDisplayStreak(ctx context.Context, userID, habitID string) (int, error)
}

// TaskService owns one-off task records.
type TaskService interface {
	AddTask(ctx context.Context, userID, name string) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string, includeDone bool) ([]*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// StatsService rebuilds aggregate caches from the execution log and owns
// administrative log resets.
type StatsService interface {
	// Recompute overwrites the item's aggregate columns from the log.
	Recompute(ctx context.Context, userID, itemID string, kind domain.ExecutionKind) error
	// ResetLogs bulk-deletes log entries for the item (the given day's
	// 24-hour window for ResetToday, everything for ResetAll) and runs the
	// recomputation pass in the same transaction. Returns the number of
	// deleted entries.
	ResetLogs(ctx context.Context, userID, itemID string, kind domain.ExecutionKind, scope domain.ResetScope, date timeutil.Day) (int64, error)
}
