package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"habits", "tasks", "active_sessions", "execution_logs", "habit_completions"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_ActiveSessionKeyIsUnique(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO active_sessions
		(user_id, item_id, kind, device_type, started_at, last_resumed_at, updated_at)
		VALUES ('u1', 'i1', 'task', 'desktop', 't0', 't0', 't0')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO active_sessions
		(user_id, item_id, kind, device_type, started_at, last_resumed_at, updated_at)
		VALUES ('u1', 'i1', 'task', 'mobile', 't1', 't1', 't1')`)
	assert.Error(t, err, "second slot for the same (user, item) must be rejected")
}

func TestMigrate_CompletionDateIsUniquePerHabit(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO habits (id, user_id, name, created_at, updated_at)
		VALUES ('h1', 'u1', 'Read', 't0', 't0')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO habit_completions (habit_id, completed_date, created_at)
		VALUES ('h1', '2024-05-06', 't0')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO habit_completions (habit_id, completed_date, created_at)
		VALUES ('h1', '2024-05-06', 't1')`)
	assert.Error(t, err, "duplicate completion for the same day must be rejected")
}
