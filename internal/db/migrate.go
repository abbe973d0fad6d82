package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; the
// migration list re-runs in full on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate re-runs of ALTER TABLE statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS habits (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL,
		name                TEXT NOT NULL,
		archived_at         TEXT,
		today_total_ms      INTEGER NOT NULL DEFAULT 0,
		all_time_total_ms   INTEGER NOT NULL DEFAULT 0,
		execution_count     INTEGER NOT NULL DEFAULT 0,
		current_streak      INTEGER NOT NULL DEFAULT 0,
		longest_streak      INTEGER NOT NULL DEFAULT 0,
		last_completed_date TEXT,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL,
		name              TEXT NOT NULL,
		completed_at      TEXT,
		today_total_ms    INTEGER NOT NULL DEFAULT 0,
		all_time_total_ms INTEGER NOT NULL DEFAULT 0,
		execution_count   INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id)`,

	// The primary key on (user_id, item_id) is the consistency anchor for
	// cross-device exclusivity: the loser of an acquire race hits it.
	`CREATE TABLE IF NOT EXISTS active_sessions (
		user_id         TEXT NOT NULL,
		item_id         TEXT NOT NULL,
		kind            TEXT NOT NULL CHECK(kind IN ('task','habit')),
		device_type     TEXT NOT NULL,
		started_at      TEXT NOT NULL,
		is_paused       INTEGER NOT NULL DEFAULT 0,
		accumulated_ms  INTEGER NOT NULL DEFAULT 0,
		last_resumed_at TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		PRIMARY KEY (user_id, item_id)
	)`,

	`CREATE TABLE IF NOT EXISTS execution_logs (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		item_id      TEXT NOT NULL,
		kind         TEXT NOT NULL CHECK(kind IN ('task','habit')),
		started_at   TEXT NOT NULL,
		ended_at     TEXT NOT NULL,
		duration_ms  INTEGER NOT NULL,
		device_type  TEXT NOT NULL,
		is_completed INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_execution_logs_user_item ON execution_logs(user_id, item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_execution_logs_started ON execution_logs(started_at)`,

	// completed_date is a JST civil day (YYYY-MM-DD). The unique index makes
	// duplicate completion toggles benign no-ops.
	`CREATE TABLE IF NOT EXISTS habit_completions (
		habit_id       TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		completed_date TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		UNIQUE (habit_id, completed_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_habit_completions_habit ON habit_completions(habit_id)`,
}
