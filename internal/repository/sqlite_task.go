package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/renzoku/internal/db"
	"github.com/alexanderramin/renzoku/internal/domain"
)

const taskColumns = `id, user_id, name, completed_at,
		today_total_ms, all_time_total_ms, execution_count,
		created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using SQLite.
type SQLiteTaskRepo struct {
	conn db.DBTX
}

// NewSQLiteTaskRepo creates a repo bound to the given connection or
// transaction.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{conn: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Name,
		nullableTimeToString(t.CompletedAt),
		t.TodayTotal.Milliseconds(),
		t.AllTimeTotal.Milliseconds(),
		t.ExecutionCount,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? AND id = ?`
	row := r.conn.QueryRowContext(ctx, query, userID, id)
	t, err := scanTaskRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task: %w", ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) List(ctx context.Context, userID string, includeDone bool) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	if !includeDone {
		query += ` AND completed_at IS NULL`
	}
	query += ` ORDER BY created_at`

	rows, err := r.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTaskRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks
		SET name = ?, completed_at = ?, updated_at = ?
		WHERE user_id = ? AND id = ?`
	res, err := r.conn.ExecContext(ctx, query,
		t.Name,
		nullableTimeToString(t.CompletedAt),
		formatTime(t.UpdatedAt),
		t.UserID,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireRow(res, "task")
}

func (r *SQLiteTaskRepo) MarkDone(ctx context.Context, userID, id string, at time.Time) error {
	query := `UPDATE tasks SET completed_at = ?, updated_at = ? WHERE user_id = ? AND id = ?`
	res, err := r.conn.ExecContext(ctx, query, formatTime(at), formatTime(at), userID, id)
	if err != nil {
		return fmt.Errorf("marking task done: %w", err)
	}
	return requireRow(res, "task")
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM tasks WHERE user_id = ? AND id = ?`
	if _, err := r.conn.ExecContext(ctx, query, userID, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// ApplyCompletedStop mirrors the habit variant: one atomic increment
// statement per completed session.
func (r *SQLiteTaskRepo) ApplyCompletedStop(ctx context.Context, userID, id string, total, todayDelta time.Duration) error {
	query := `UPDATE tasks
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
		return fmt.Errorf("applying completed stop to task: %w", err)
	}
	return requireRow(res, "task")
}

func (r *SQLiteTaskRepo) SetAggregates(ctx context.Context, userID, id string, today, allTime time.Duration, count int) error {
	query := `UPDATE tasks
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
		return fmt.Errorf("setting task aggregates: %w", err)
	}
	return requireRow(res, "task")
}

// scanTaskRow scans one tasks row through any Scan function.
func scanTaskRow(scan func(dest ...any) error) (*domain.Task, error) {
	var t domain.Task
	var completed sql.NullString
	var createdStr, updatedStr string
	var todayMS, allTimeMS int64

	err := scan(
		&t.ID, &t.UserID, &t.Name, &completed,
		&todayMS, &allTimeMS, &t.ExecutionCount,
		&createdStr, &updatedStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.CompletedAt = parseNullableTime(completed)
	t.TodayTotal = time.Duration(todayMS) * time.Millisecond
	t.AllTimeTotal = time.Duration(allTimeMS) * time.Millisecond

	if t.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}
