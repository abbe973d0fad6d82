package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/repository"
	"github.com/alexanderramin/renzoku/internal/testutil"
	"github.com/alexanderramin/renzoku/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type habitFixture struct {
	svc    *habitService
	habits *repository.SQLiteHabitRepo
	habit  *domain.Habit
	today  timeutil.Day
}

func newHabitFixture(t *testing.T) *habitFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	habits := repository.NewSQLiteHabitRepo(database)
	completions := repository.NewSQLiteCompletionRepo(database)

	habit := testutil.NewTestHabit("reading")
	require.NoError(t, habits.Create(ctx, habit))

	svc := NewHabitService(habits, completions, testutil.NewTestUoW(database)).(*habitService)

	return &habitFixture{
		svc:    svc,
		habits: habits,
		habit:  habit,
		today:  timeutil.Today(),
	}
}

func (f *habitFixture) toggle(t *testing.T, day timeutil.Day, completed bool) ToggleResult {
	t.Helper()
	return f.svc.ToggleHabitCompletion(context.Background(), testutil.TestUser, f.habit.ID, completed, &day)
}

func (f *habitFixture) stored(t *testing.T) *domain.Habit {
	t.Helper()
	h, err := f.habits.GetByID(context.Background(), testutil.TestUser, f.habit.ID)
	require.NoError(t, err)
	return h
}

func TestHabitService_AddHabit(t *testing.T) {
	database := testutil.NewTestDB(t)
	habits := repository.NewSQLiteHabitRepo(database)
	completions := repository.NewSQLiteCompletionRepo(database)
	svc := NewHabitService(habits, completions, testutil.NewTestUoW(database))
	ctx := context.Background()

	habit, err := svc.AddHabit(ctx, testutil.TestUser, "  journaling  ")
	require.NoError(t, err)
	assert.Equal(t, "journaling", habit.Name)
	assert.NotEmpty(t, habit.ID)

	_, err = svc.AddHabit(ctx, testutil.TestUser, "   ")
	assert.Equal(t, domain.ErrCodeInvalidState, domain.CodeOf(err))
}

func TestHabitService_ToggleBuildsStreak(t *testing.T) {
	f := newHabitFixture(t)

	// Three consecutive days ending yesterday.
	for i := 3; i >= 1; i-- {
		res := f.toggle(t, f.today.AddDays(-i), true)
		require.True(t, res.Success)
		require.Empty(t, res.Error)
	}

	h := f.stored(t)
	assert.Equal(t, 3, h.CurrentStreak)
	assert.Equal(t, 3, h.LongestStreak)
	require.NotNil(t, h.LastCompletedDate)
	assert.Equal(t, f.today.Prev(), *h.LastCompletedDate)
}

func TestHabitService_TodayNotInStoredStreak(t *testing.T) {
	f := newHabitFixture(t)

	require.True(t, f.toggle(t, f.today.Prev(), true).Success)
	require.True(t, f.toggle(t, f.today, true).Success)

	// Completing today extends the display value only.
	h := f.stored(t)
	assert.Equal(t, 1, h.CurrentStreak)

	display, err := f.svc.GetDisplayStreak(context.Background(), testutil.TestUser, f.habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, display)
}

func TestHabitService_DuplicateCompleteIsBenign(t *testing.T) {
	f := newHabitFixture(t)

	require.True(t, f.toggle(t, f.today.Prev(), true).Success)
	before := f.stored(t)

	res := f.toggle(t, f.today.Prev(), true)
	assert.True(t, res.Success)
	assert.Equal(t, domain.ErrCodeAlreadyCompleted, res.Error)

	// Nothing moved.
	after := f.stored(t)
	assert.Equal(t, before.CurrentStreak, after.CurrentStreak)
	assert.Equal(t, before.LongestStreak, after.LongestStreak)
}

func TestHabitService_UntoggleRecomputes(t *testing.T) {
	f := newHabitFixture(t)

	for i := 3; i >= 1; i-- {
		require.True(t, f.toggle(t, f.today.AddDays(-i), true).Success)
	}
	require.Equal(t, 3, f.stored(t).CurrentStreak)

	// Removing yesterday breaks the run ending there; the two older days
	// remain the longest run.
	require.True(t, f.toggle(t, f.today.Prev(), false).Success)
	h := f.stored(t)
	assert.Equal(t, 0, h.CurrentStreak)
	assert.Equal(t, 2, h.LongestStreak)

	// Re-adding restores the original state.
	require.True(t, f.toggle(t, f.today.Prev(), true).Success)
	h = f.stored(t)
	assert.Equal(t, 3, h.CurrentStreak)
	assert.Equal(t, 3, h.LongestStreak)
}

func TestHabitService_UntoggleMissingIsBenign(t *testing.T) {
	f := newHabitFixture(t)

	res := f.toggle(t, f.today, false)
	assert.True(t, res.Success)
	assert.Equal(t, domain.ErrCodeAlreadyCompleted, res.Error)
}

func TestHabitService_ToggleUnknownHabit(t *testing.T) {
	f := newHabitFixture(t)

	res := f.svc.ToggleHabitCompletion(context.Background(), testutil.TestUser, "missing", true, nil)
	assert.False(t, res.Success)
	assert.Equal(t, domain.ErrCodeHabitNotFound, res.Error)
}

func TestHabitService_GapResetsStoredStreak(t *testing.T) {
	f := newHabitFixture(t)

	// A run that ended two days ago does not count as current.
	require.True(t, f.toggle(t, f.today.AddDays(-4), true).Success)
	require.True(t, f.toggle(t, f.today.AddDays(-3), true).Success)
	require.True(t, f.toggle(t, f.today.AddDays(-2), true).Success)

	h := f.stored(t)
	assert.Equal(t, 0, h.CurrentStreak)
	assert.Equal(t, 3, h.LongestStreak)
}

func TestHabitService_CompleteHabitMarksToday(t *testing.T) {
	f := newHabitFixture(t)
	ctx := context.Background()

	res := f.svc.CompleteHabit(ctx, testutil.TestUser, f.habit.ID)
	require.True(t, res.Success)

	display, err := f.svc.GetDisplayStreak(ctx, testutil.TestUser, f.habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, display)

	res = f.svc.CompleteHabit(ctx, testutil.TestUser, f.habit.ID)
	assert.True(t, res.Success)
	assert.Equal(t, domain.ErrCodeAlreadyCompleted, res.Error)
}

func TestHabitService_HabitsWithCompletionForDate(t *testing.T) {
	f := newHabitFixture(t)
	ctx := context.Background()

	other, err := f.svc.AddHabit(ctx, testutil.TestUser, "stretching")
	require.NoError(t, err)
	require.True(t, f.toggle(t, f.today, true).Success)

	list, err := f.svc.GetHabitsWithCompletionForDate(ctx, testutil.TestUser, f.today)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[string]bool{}
	for _, hc := range list {
		byID[hc.Habit.ID] = hc.IsCompleted
	}
	assert.True(t, byID[f.habit.ID])
	assert.False(t, byID[other.ID])
}

func TestHabitService_ArchiveHidesFromDefaultList(t *testing.T) {
	f := newHabitFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.ArchiveHabit(ctx, testutil.TestUser, f.habit.ID))

	visible, err := f.svc.ListHabits(ctx, testutil.TestUser, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := f.svc.ListHabits(ctx, testutil.TestUser, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
