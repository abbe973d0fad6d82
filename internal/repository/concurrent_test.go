package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/renzoku/internal/db"
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp
// directory. Unlike :memory:, a file-backed DB shares state across all
// connections in the pool, which is required to exercise real concurrent
// access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAcquire_SingleWinner races several devices for the same
// (user, item) slot. Exactly one acquire must win; every loser must get a
// DEVICE_CONFLICT naming a real device, and the winner's row must survive
// unmodified.
func TestConcurrentAcquire_SingleWinner(t *testing.T) {
	database := newConcurrentTestDB(t)
	repo := NewSQLiteActiveSessionRepo(database)
	ctx := context.Background()

	devices := []domain.DeviceType{
		domain.DeviceDesktop, domain.DeviceMobile, domain.DeviceWeb, domain.DeviceTablet,
	}

	var wg sync.WaitGroup
	results := make([]error, len(devices))
	for i, dev := range devices {
		wg.Add(1)
		go func(i int, dev domain.DeviceType) {
			defer wg.Done()
			s := testutil.NewTestSession("contested", domain.KindHabit,
				testutil.WithSessionDevice(dev))
			_, err := repo.Acquire(ctx, s)
			results[i] = err
		}(i, dev)
	}
	wg.Wait()

	var wins int
	for i, err := range results {
		if err == nil {
			wins++
			continue
		}
		dev, ok := domain.ConflictDevice(err)
		require.True(t, ok, "loser %d got %v, want a device conflict", i, err)
		assert.Contains(t, devices, dev)
	}
	assert.Equal(t, 1, wins, "exactly one device should win the slot")

	stored, err := repo.Get(ctx, testutil.TestUser, "contested")
	require.NoError(t, err)
	assert.Contains(t, devices, stored.DeviceType)
}

// TestConcurrentCompletionToggle_Duplicates races duplicate completion
// inserts for the same day; the unique index must let exactly one through.
func TestConcurrentCompletionToggle_Duplicates(t *testing.T) {
	database := newConcurrentTestDB(t)
	habits := NewSQLiteHabitRepo(database)
	repo := NewSQLiteCompletionRepo(database)
	ctx := context.Background()

	h := seedHabit(t, habits, "Contested")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := &domain.HabitCompletion{
				HabitID:       h.ID,
				CompletedDate: "2024-05-06",
			}
			errs[i] = repo.Create(ctx, c)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrDuplicate)
		}
	}
	assert.Equal(t, 1, ok, "exactly one insert should land")

	dates, err := repo.ListDates(ctx, h.ID)
	require.NoError(t, err)
	assert.Len(t, dates, 1)
}
