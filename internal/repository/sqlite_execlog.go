package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/renzoku/internal/db"
	"github.com/alexanderramin/renzoku/internal/domain"
)

const executionLogColumns = `id, user_id, item_id, kind, started_at, ended_at,
		duration_ms, device_type, is_completed, created_at`

// SQLiteExecutionLogRepo implements ExecutionLogRepo using SQLite. The
// table is insert-only in normal operation; deletes exist solely for
// administrative resets.
type SQLiteExecutionLogRepo struct {
	conn db.DBTX
}

// NewSQLiteExecutionLogRepo creates a repo bound to the given connection
// or transaction.
func NewSQLiteExecutionLogRepo(conn db.DBTX) *SQLiteExecutionLogRepo {
	return &SQLiteExecutionLogRepo{conn: conn}
}

func (r *SQLiteExecutionLogRepo) Create(ctx context.Context, l *domain.ExecutionLog) error {
	query := `INSERT INTO execution_logs (` + executionLogColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		l.ID,
		l.UserID,
		l.ItemID,
		string(l.Kind),
		formatTime(l.StartedAt),
		formatTime(l.EndedAt),
		l.Duration.Milliseconds(),
		string(l.DeviceType),
		boolToInt(l.IsCompleted),
		formatTime(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting execution log: %w", err)
	}
	return nil
}

func (r *SQLiteExecutionLogRepo) GetByID(ctx context.Context, id string) (*domain.ExecutionLog, error) {
	query := `SELECT ` + executionLogColumns + ` FROM execution_logs WHERE id = ?`
	row := r.conn.QueryRowContext(ctx, query, id)
	l, err := scanLogRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("execution log: %w", ErrNotFound)
	}
	return l, err
}

func (r *SQLiteExecutionLogRepo) ListByItem(ctx context.Context, userID, itemID string) ([]*domain.ExecutionLog, error) {
	query := `SELECT ` + executionLogColumns + `
		FROM execution_logs WHERE user_id = ? AND item_id = ? ORDER BY started_at`
	return r.list(ctx, query, userID, itemID)
}

func (r *SQLiteExecutionLogRepo) ListByRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.ExecutionLog, error) {
	query := `SELECT ` + executionLogColumns + `
		FROM execution_logs
		WHERE user_id = ? AND started_at >= ? AND started_at < ?
		ORDER BY started_at`
	return r.list(ctx, query, userID, formatTime(start), formatTime(end))
}

func (r *SQLiteExecutionLogRepo) AggregateCompleted(ctx context.Context, userID, itemID string, start, end *time.Time) (LogAggregate, error) {
	query := `SELECT COALESCE(SUM(duration_ms), 0), COUNT(*)
		FROM execution_logs
		WHERE user_id = ? AND item_id = ? AND is_completed = 1`
	args := []any{userID, itemID}
	if start != nil {
		query += ` AND started_at >= ?`
		args = append(args, formatTime(*start))
	}
	if end != nil {
		query += ` AND started_at < ?`
		args = append(args, formatTime(*end))
	}

	var totalMS int64
	var count int
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&totalMS, &count); err != nil {
		return LogAggregate{}, fmt.Errorf("aggregating execution logs: %w", err)
	}
	return LogAggregate{
		Total: time.Duration(totalMS) * time.Millisecond,
		Count: count,
	}, nil
}

func (r *SQLiteExecutionLogRepo) DeleteByItemAndRange(ctx context.Context, userID, itemID string, start, end time.Time) (int64, error) {
	query := `DELETE FROM execution_logs
		WHERE user_id = ? AND item_id = ? AND started_at >= ? AND started_at < ?`
	res, err := r.conn.ExecContext(ctx, query, userID, itemID, formatTime(start), formatTime(end))
	if err != nil {
		return 0, fmt.Errorf("deleting execution logs by range: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteExecutionLogRepo) DeleteByItem(ctx context.Context, userID, itemID string) (int64, error) {
	query := `DELETE FROM execution_logs WHERE user_id = ? AND item_id = ?`
	res, err := r.conn.ExecContext(ctx, query, userID, itemID)
	if err != nil {
		return 0, fmt.Errorf("deleting execution logs: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteExecutionLogRepo) list(ctx context.Context, query string, args ...any) ([]*domain.ExecutionLog, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing execution logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.ExecutionLog
	for rows.Next() {
		l, err := scanLogRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating execution logs: %w", err)
	}
	return logs, nil
}

// scanLogRow scans one execution_logs row through any Scan function.
func scanLogRow(scan func(dest ...any) error) (*domain.ExecutionLog, error) {
	var l domain.ExecutionLog
	var kind, device, startedStr, endedStr, createdStr string
	var completed int
	var durationMS int64

	err := scan(
		&l.ID, &l.UserID, &l.ItemID, &kind, &startedStr, &endedStr,
		&durationMS, &device, &completed, &createdStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning execution log: %w", err)
	}

	l.Kind = domain.ExecutionKind(kind)
	l.DeviceType = domain.DeviceType(device)
	l.IsCompleted = intToBool(completed)
	l.Duration = time.Duration(durationMS) * time.Millisecond

	if l.StartedAt, err = time.Parse(time.RFC3339, startedStr); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if l.EndedAt, err = time.Parse(time.RFC3339, endedStr); err != nil {
		return nil, fmt.Errorf("parsing ended_at: %w", err)
	}
	if l.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &l, nil
}
