package domain

import "time"

// Task is a one-off item. It carries the same aggregate cache as a habit
// but no streak fields.
type Task struct {
	ID          string
	UserID      string
	Name        string
	CompletedAt *time.Time

	TodayTotal     time.Duration
	AllTimeTotal   time.Duration
	ExecutionCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Done reports whether the task has been completed at least once.
func (t *Task) Done() bool {
	return t.CompletedAt != nil
}
