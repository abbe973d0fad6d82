package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/timeutil"
)

// LogAggregate is the result of summing completed execution logs, used to
// rebuild the cached aggregate columns from the ground-truth log.
type LogAggregate struct {
	Total time.Duration
	Count int
}

type ActiveSessionRepo interface {
	// Acquire claims the (user, item) slot. If the slot is already held by
	// the same device the existing session is returned unchanged (an
	// idempotent resume). If another device holds it, a DEVICE_CONFLICT
	// error carrying the owner's device type is returned and the stored
	// row is not mutated.
	Acquire(ctx context.Context, s *domain.ActiveSession) (*domain.ActiveSession, error)
	Get(ctx context.Context, userID, itemID string) (*domain.ActiveSession, error)
	Update(ctx context.Context, s *domain.ActiveSession) error
	// Release deletes the slot. Releasing an absent slot is not an error.
	Release(ctx context.Context, userID, itemID string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.ActiveSession, error)
}

type ExecutionLogRepo interface {
	Create(ctx context.Context, l *domain.ExecutionLog) error
	GetByID(ctx context.Context, id string) (*domain.ExecutionLog, error)
	ListByItem(ctx context.Context, userID, itemID string) ([]*domain.ExecutionLog, error)
	ListByRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.ExecutionLog, error)
	// AggregateCompleted sums completed entries for the item; a non-nil
	// window restricts by started_at in [start, end).
	AggregateCompleted(ctx context.Context, userID, itemID string, start, end *time.Time) (LogAggregate, error)
	// DeleteByItemAndRange removes entries whose started_at falls in
	// [start, end). Administrative resets only.
	DeleteByItemAndRange(ctx context.Context, userID, itemID string, start, end time.Time) (int64, error)
	DeleteByItem(ctx context.Context, userID, itemID string) (int64, error)
}

type HabitRepo interface {
	Create(ctx context.Context, h *domain.Habit) error
	GetByID(ctx context.Context, userID, id string) (*domain.Habit, error)
	List(ctx context.Context, userID string, includeArchived bool) ([]*domain.Habit, error)
	Update(ctx context.Context, h *domain.Habit) error
	Archive(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, userID, id string) error
	// ApplyCompletedStop adds a finished session to the aggregate columns
	// as a single atomic SQL increment. todayDelta is zero when the
	// session did not end on the current JST day.
	ApplyCompletedStop(ctx context.Context, userID, id string, total, todayDelta time.Duration) error
	// SetAggregates overwrites the aggregate cache, used by recomputation.
	SetAggregates(ctx context.Context, userID, id string, today, allTime time.Duration, count int) error
	// SetStreak overwrites the cached streak state.
	SetStreak(ctx context.Context, userID, id string, current, longest int, last *timeutil.Day) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	List(ctx context.Context, userID string, includeDone bool) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	MarkDone(ctx context.Context, userID, id string, at time.Time) error
	Delete(ctx context.Context, userID, id string) error
	ApplyCompletedStop(ctx context.Context, userID, id string, total, todayDelta time.Duration) error
	SetAggregates(ctx context.Context, userID, id string, today, allTime time.Duration, count int) error
}

type CompletionRepo interface {
	// Create inserts the (habit, date) record; a duplicate returns
	// ErrDuplicate without mutating anything.
	Create(ctx context.Context, c *domain.HabitCompletion) error
	// Delete removes the record, reporting whether it existed.
	Delete(ctx context.Context, habitID string, date timeutil.Day) (bool, error)
	Exists(ctx context.Context, habitID string, date timeutil.Day) (bool, error)
	// ListDates returns every distinct completion date for the habit.
	ListDates(ctx context.Context, habitID string) ([]timeutil.Day, error)
	// CompletedHabitIDs returns the user's habit IDs completed on date.
	CompletedHabitIDs(ctx context.Context, userID string, date timeutil.Day) (map[string]bool, error)
}
