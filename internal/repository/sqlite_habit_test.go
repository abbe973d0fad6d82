package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/renzoku/internal/testutil"
	"github.com/alexanderramin/renzoku/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHabit_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(database)
	ctx := context.Background()

	h := testutil.NewTestHabit("Morning run")
	require.NoError(t, repo.Create(ctx, h))

	got, err := repo.GetByID(ctx, h.UserID, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning run", got.Name)
	assert.Zero(t, got.ExecutionCount)
	assert.Nil(t, got.LastCompletedDate)
}

func TestHabit_GetScopedByUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(database)
	ctx := context.Background()

	h := testutil.NewTestHabit("Reading")
	require.NoError(t, repo.Create(ctx, h))

	_, err := repo.GetByID(ctx, "someone-else", h.ID)
	assert.ErrorIs(t, err, ErrNotFound, "rows are partitioned by user")
}

func TestHabit_ListExcludesArchived(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestHabit("Active")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestHabit("Old",
		testutil.WithHabitArchived(time.Now().UTC()))))

	active, err := repo.List(ctx, testutil.TestUser, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := repo.List(ctx, testutil.TestUser, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHabit_ApplyCompletedStopIncrements(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(database)
	ctx := context.Background()

	h := testutil.NewTestHabit("Stretch")
	require.NoError(t, repo.Create(ctx, h))

	require.NoError(t, repo.ApplyCompletedStop(ctx, h.UserID, h.ID, 20*time.Minute, 20*time.Minute))
	require.NoError(t, repo.ApplyCompletedStop(ctx, h.UserID, h.ID, 10*time.Minute, 0))

	got, err := repo.GetByID(ctx, h.UserID, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, got.AllTimeTotal)
	assert.Equal(t, 20*time.Minute, got.TodayTotal, "second stop fell on another day")
	assert.Equal(t, 2, got.ExecutionCount)
}

func TestHabit_ApplyCompletedStopMissing(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(database)

	err := repo.ApplyCompletedStop(context.Background(), testutil.TestUser, "missing", time.Minute, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHabit_SetStreak(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(database)
	ctx := context.Background()

	h := testutil.NewTestHabit("Journal")
	require.NoError(t, repo.Create(ctx, h))

	last := timeutil.Day("2024-05-05")
	require.NoError(t, repo.SetStreak(ctx, h.UserID, h.ID, 4, 9, &last))

	got, err := repo.GetByID(ctx, h.UserID, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentStreak)
	assert.Equal(t, 9, got.LongestStreak)
	require.NotNil(t, got.LastCompletedDate)
	assert.Equal(t, last, *got.LastCompletedDate)

	// Clearing back to the empty state.
	require.NoError(t, repo.SetStreak(ctx, h.UserID, h.ID, 0, 0, nil))
	got, err = repo.GetByID(ctx, h.UserID, h.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CurrentStreak)
	assert.Nil(t, got.LastCompletedDate)
}

func TestHabit_SetAggregates(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(database)
	ctx := context.Background()

	h := testutil.NewTestHabit("Meditate")
	require.NoError(t, repo.Create(ctx, h))
	require.NoError(t, repo.ApplyCompletedStop(ctx, h.UserID, h.ID, time.Hour, time.Hour))

	// Recompute-style overwrite wins over whatever was accumulated.
	require.NoError(t, repo.SetAggregates(ctx, h.UserID, h.ID, 5*time.Minute, 30*time.Minute, 3))

	got, err := repo.GetByID(ctx, h.UserID, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, got.TodayTotal)
	assert.Equal(t, 30*time.Minute, got.AllTimeTotal)
	assert.Equal(t, 3, got.ExecutionCount)
}

func TestHabit_Archive(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(database)
	ctx := context.Background()

	h := testutil.NewTestHabit("Stretch")
	require.NoError(t, repo.Create(ctx, h))
	require.NoError(t, repo.Archive(ctx, h.UserID, h.ID))

	got, err := repo.GetByID(ctx, h.UserID, h.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ArchivedAt)
}
