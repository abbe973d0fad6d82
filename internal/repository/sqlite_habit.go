package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/renzoku/internal/db"
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/timeutil"
)

const habitColumns = `id, user_id, name, archived_at,
		today_total_ms, all_time_total_ms, execution_count,
		current_streak, longest_streak, last_completed_date,
		created_at, updated_at`

// SQLiteHabitRepo implements HabitRepo using SQLite.
type SQLiteHabitRepo struct {
	conn db.DBTX
}

// NewSQLiteHabitRepo creates a repo bound to the given connection or
// transaction.
func NewSQLiteHabitRepo(conn db.DBTX) *SQLiteHabitRepo {
	return &SQLiteHabitRepo{conn: conn}
}

func (r *SQLiteHabitRepo) Create(ctx context.Context, h *domain.Habit) error {
	query := `INSERT INTO habits (` + habitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		h.ID,
		h.UserID,
		h.Name,
		nullableTimeToString(h.ArchivedAt),
		h.TodayTotal.Milliseconds(),
		h.AllTimeTotal.Milliseconds(),
		h.ExecutionCount,
		h.CurrentStreak,
		h.LongestStreak,
		nullableDayToString(h.LastCompletedDate),
		formatTime(h.CreatedAt),
		formatTime(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) GetByID(ctx context.Context, userID, id string) (*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ? AND id = ?`
	row := r.conn.QueryRowContext(ctx, query, userID, id)
	h, err := scanHabitRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("habit: %w", ErrNotFound)
	}
	return h, err
}

func (r *SQLiteHabitRepo) List(ctx context.Context, userID string, includeArchived bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	if !includeArchived {
		query += ` AND archived_at IS NULL`
	}
	query += ` ORDER BY created_at`

	rows, err := r.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		h, err := scanHabitRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habits: %w", err)
	}
	return habits, nil
}

func (r *SQLiteHabitRepo) Update(ctx context.Context, h *domain.Habit) error {
	query := `UPDATE habits
		SET name = ?, archived_at = ?, updated_at = ?
		WHERE user_id = ? AND id = ?`
	res, err := r.conn.ExecContext(ctx, query,
		h.Name,
		nullableTimeToString(h.ArchivedAt),
		formatTime(h.UpdatedAt),
		h.UserID,
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	return requireRow(res, "habit")
}

func (r *SQLiteHabitRepo) Archive(ctx context.Context, userID, id string) error {
	now := formatTime(time.Now())
	query := `UPDATE habits SET archived_at = ?, updated_at = ? WHERE user_id = ? AND id = ?`
	res, err := r.conn.ExecContext(ctx, query, now, now, userID, id)
	if err != nil {
		return fmt.Errorf("archiving habit: %w", err)
	}
	return requireRow(res, "habit")
}

func (r *SQLiteHabitRepo) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM habits WHERE user_id = ? AND id = ?`
	if _, err := r.conn.ExecContext(ctx, query, userID, id); err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	return nil
}

// ApplyCompletedStop folds one completed session into the aggregate cache
// as a single atomic statement, avoiding the read-then-write lost-update
// race under concurrent completions.
func (r *SQLiteHabitRepo) ApplyCompletedStop(ctx context.Context, userID, id string, total, todayDelta time.Duration) error {
	query := `UPDATE habits
		SET all_time_total_ms = all_time_total_ms + ?,
		    execution_count = execution_count + 1,
		    today_total_ms = today_total_ms + ?,
		    updated_at = ?
		WHERE user_id = ? AND id = ?`
	res, err := r.conn.ExecContext(ctx, query,
		total.Milliseconds(),
		todayDelta.Milliseconds(),
		formatTime(time.Now()),
		userID,
		id,
	)
	if err != nil {
		return fmt.Errorf("applying completed stop to habit: %w", err)
	}
	return requireRow(res, "habit")
}

func (r *SQLiteHabitRepo) SetAggregates(ctx context.Context, userID, id string, today, allTime time.Duration, count int) error {
	query := `UPDATE habits
		SET today_total_ms = ?, all_time_total_ms = ?, execution_count = ?, updated_at = ?
		WHERE user_id = ? AND id = ?`
	res, err := r.conn.ExecContext(ctx, query,
		today.Milliseconds(),
		allTime.Milliseconds(),
		count,
		formatTime(time.Now()),
		userID,
		id,
	)
	if err != nil {
		return fmt.Errorf("setting habit aggregates: %w", err)
	}
	return requireRow(res, "habit")
}

func (r *SQLiteHabitRepo) SetStreak(ctx context.Context, userID, id string, current, longest int, last *timeutil.Day) error {
	query := `UPDATE habits
		SET current_streak = ?, longest_streak = ?, last_completed_date = ?, updated_at = ?
		WHERE user_id = ? AND id = ?`
	res, err := r.conn.ExecContext(ctx, query,
		current,
		longest,
		nullableDayToString(last),
		formatTime(time.Now()),
		userID,
		id,
	)
	if err != nil {
		return fmt.Errorf("setting habit streak: %w", err)
	}
	return requireRow(res, "habit")
}

// requireRow converts a zero-row UPDATE into ErrNotFound.
func requireRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}

// scanHabitRow scans one habits row through any Scan function.
func scanHabitRow(scan func(dest ...any) error) (*domain.Habit, error) {
	var h domain.Habit
	var archived, lastDate sql.NullString
	var createdStr, updatedStr string
	var todayMS, allTimeMS int64

	err := scan(
		&h.ID, &h.UserID, &h.Name, &archived,
		&todayMS, &allTimeMS, &h.ExecutionCount,
		&h.CurrentStreak, &h.LongestStreak, &lastDate,
		&createdStr, &updatedStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning habit: %w", err)
	}

	h.ArchivedAt = parseNullableTime(archived)
	h.LastCompletedDate = parseNullableDay(lastDate)
	h.TodayTotal = time.Duration(todayMS) * time.Millisecond
	h.AllTimeTotal = time.Duration(allTimeMS) * time.Millisecond

	if h.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if h.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &h, nil
}
