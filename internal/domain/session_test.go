package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunningSession(start time.Time) *ActiveSession {
	return &ActiveSession{
		UserID:        "u1",
		ItemID:        "item1",
		Kind:          KindTask,
		DeviceType:    DeviceDesktop,
		StartedAt:     start,
		LastResumedAt: start,
	}
}

func TestActiveSession_PauseResumeAccumulates(t *testing.T) {
	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	s := newRunningSession(start)

	require.NoError(t, s.Pause(start.Add(10*time.Minute)))
	assert.Equal(t, 10*time.Minute, s.Accumulated)
	assert.Equal(t, SessionPaused, s.Status())

	require.NoError(t, s.Resume(start.Add(25*time.Minute)))
	assert.Equal(t, SessionRunning, s.Status())

	require.NoError(t, s.Pause(start.Add(40*time.Minute)))
	assert.Equal(t, 25*time.Minute, s.Accumulated, "paused interval must not count")
}

func TestActiveSession_InvalidTransitions(t *testing.T) {
	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	s := newRunningSession(start)

	err := s.Resume(start.Add(time.Minute))
	assert.Equal(t, ErrCodeInvalidState, CodeOf(err))
	assert.Equal(t, SessionRunning, s.Status(), "failed resume leaves state unchanged")

	require.NoError(t, s.Pause(start.Add(5*time.Minute)))
	err = s.Pause(start.Add(6*time.Minute))
	assert.Equal(t, ErrCodeInvalidState, CodeOf(err))
	assert.Equal(t, 5*time.Minute, s.Accumulated, "failed pause must not double-fold")
}

func TestActiveSession_TotalDuration(t *testing.T) {
	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	s := newRunningSession(start)

	// Running: accumulated plus the open interval.
	assert.Equal(t, 15*time.Minute, s.TotalDuration(start.Add(15*time.Minute)))

	require.NoError(t, s.Pause(start.Add(15*time.Minute)))
	// Paused: the open interval contributes nothing.
	assert.Equal(t, 15*time.Minute, s.TotalDuration(start.Add(2*time.Hour)))
}

func TestConflictDevice(t *testing.T) {
	err := NewDeviceConflict(DeviceMobile)
	dev, ok := ConflictDevice(err)
	require.True(t, ok)
	assert.Equal(t, DeviceMobile, dev)
	assert.True(t, IsDeviceConflict(err))

	_, ok = ConflictDevice(NewInvalidState("nope"))
	assert.False(t, ok)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.Equal(t, ErrCodeHabitNotFound, CodeOf(NewNotFound(KindHabit, "h1")))
	assert.Equal(t, ErrCodeTaskNotFound, CodeOf(NewNotFound(KindTask, "t1")))
	assert.Equal(t, ErrCodeUnknown, CodeOf(assert.AnError))
}
