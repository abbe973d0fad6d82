package domain

import "time"

// ActiveSession is the single in-progress timed execution for one
// (user, item) pair. At most one row exists per pair; the persistence
// layer's primary key enforces that, not in-process locking.
type ActiveSession struct {
	UserID        string
	ItemID        string
	Kind          ExecutionKind
	DeviceType    DeviceType
	StartedAt     time.Time
	IsPaused      bool
	Accumulated   time.Duration
	LastResumedAt time.Time
	UpdatedAt     time.Time
}

// Status reports the lifecycle state of the session.
func (s *ActiveSession) Status() SessionStatus {
	if s.IsPaused {
		return SessionPaused
	}
	return SessionRunning
}

// Pause folds the elapsed running interval into the accumulated total.
// Valid only while running.
func (s *ActiveSession) Pause(now time.Time) error {
	if s.IsPaused {
		return NewInvalidState("session is already paused")
	}
	s.Accumulated += now.Sub(s.LastResumedAt)
	s.IsPaused = true
	s.UpdatedAt = now
	return nil
}

// Resume restarts the running interval clock. Valid only while paused.
func (s *ActiveSession) Resume(now time.Time) error {
	if !s.IsPaused {
		return NewInvalidState("session is not paused")
	}
	s.IsPaused = false
	s.LastResumedAt = now
	s.UpdatedAt = now
	return nil
}

// TotalDuration returns the accumulated time plus the currently running
// interval, if any. This is the duration recorded when the session stops.
func (s *ActiveSession) TotalDuration(now time.Time) time.Duration {
	total := s.Accumulated
	if !s.IsPaused {
		total += now.Sub(s.LastResumedAt)
	}
	return total
}

// ExecutionLog is the immutable record of one finished execution.
// Rows are insert-only; the only deletions are administrative bulk resets.
type ExecutionLog struct {
	ID          string
	UserID      string
	ItemID      string
	Kind        ExecutionKind
	StartedAt   time.Time
	EndedAt     time.Time
	Duration    time.Duration
	DeviceType  DeviceType
	IsCompleted bool
	CreatedAt   time.Time
}
