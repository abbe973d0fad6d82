package testutil

import (
	"time"

	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/timeutil"
	"github.com/google/uuid"
)

// TestUser is the user everything is scoped to unless a fixture overrides it.
const TestUser = "u-test"

// Habit options
type HabitOption func(*domain.Habit)

func WithHabitUser(userID string) HabitOption {
	return func(h *domain.Habit) {
		h.UserID = userID
	}
}

func WithHabitStreak(current, longest int, last timeutil.Day) HabitOption {
	return func(h *domain.Habit) {
		h.CurrentStreak = current
		h.LongestStreak = longest
		h.LastCompletedDate = &last
	}
}

func WithHabitArchived(at time.Time) HabitOption {
	return func(h *domain.Habit) {
		h.ArchivedAt = &at
	}
}

func NewTestHabit(name string, opts ...HabitOption) *domain.Habit {
	now := time.Now().UTC()
	h := &domain.Habit{
		ID:        uuid.New().String(),
		UserID:    TestUser,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskUser(userID string) TaskOption {
	return func(t *domain.Task) {
		t.UserID = userID
	}
}

func WithTaskCompleted(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.CompletedAt = &at
	}
}

func NewTestTask(name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	task := &domain.Task{
		ID:        uuid.New().String(),
		UserID:    TestUser,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// ActiveSession options
type SessionOption func(*domain.ActiveSession)

func WithSessionDevice(d domain.DeviceType) SessionOption {
	return func(s *domain.ActiveSession) {
		s.DeviceType = d
	}
}

func WithSessionPaused(accumulated time.Duration) SessionOption {
	return func(s *domain.ActiveSession) {
		s.IsPaused = true
		s.Accumulated = accumulated
	}
}

func WithSessionStart(at time.Time) SessionOption {
	return func(s *domain.ActiveSession) {
		s.StartedAt = at
		s.LastResumedAt = at
		s.UpdatedAt = at
	}
}

func NewTestSession(itemID string, kind domain.ExecutionKind, opts ...SessionOption) *domain.ActiveSession {
	now := time.Now().UTC()
	s := &domain.ActiveSession{
		UserID:        TestUser,
		ItemID:        itemID,
		Kind:          kind,
		DeviceType:    domain.DeviceDesktop,
		StartedAt:     now,
		LastResumedAt: now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExecutionLog options
type LogOption func(*domain.ExecutionLog)

func WithLogCompleted(completed bool) LogOption {
	return func(l *domain.ExecutionLog) {
		l.IsCompleted = completed
	}
}

func WithLogStart(at time.Time) LogOption {
	return func(l *domain.ExecutionLog) {
		l.StartedAt = at
		l.EndedAt = at.Add(l.Duration)
	}
}

func WithLogDevice(d domain.DeviceType) LogOption {
	return func(l *domain.ExecutionLog) {
		l.DeviceType = d
	}
}

func NewTestLog(itemID string, kind domain.ExecutionKind, duration time.Duration, opts ...LogOption) *domain.ExecutionLog {
	now := time.Now().UTC()
	l := &domain.ExecutionLog{
		ID:          uuid.New().String(),
		UserID:      TestUser,
		ItemID:      itemID,
		Kind:        kind,
		StartedAt:   now.Add(-duration),
		EndedAt:     now,
		Duration:    duration,
		DeviceType:  domain.DeviceDesktop,
		IsCompleted: true,
		CreatedAt:   now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
