package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/renzoku/internal/db"
	"github.com/alexanderramin/renzoku/internal/domain"
)

const activeSessionColumns = `user_id, item_id, kind, device_type, started_at,
		is_paused, accumulated_ms, last_resumed_at, updated_at`

// SQLiteActiveSessionRepo implements ActiveSessionRepo using SQLite. The
// table's primary key on (user_id, item_id) is the arbiter of exclusivity;
// no in-process locking is involved.
type SQLiteActiveSessionRepo struct {
	conn db.DBTX
}

// NewSQLiteActiveSessionRepo creates a repo bound to the given connection
// or transaction.
func NewSQLiteActiveSessionRepo(conn db.DBTX) *SQLiteActiveSessionRepo {
	return &SQLiteActiveSessionRepo{conn: conn}
}

func (r *SQLiteActiveSessionRepo) Acquire(ctx context.Context, s *domain.ActiveSession) (*domain.ActiveSession, error) {
	query := `INSERT INTO active_sessions (` + activeSessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, item_id) DO NOTHING`
	res, err := r.conn.ExecContext(ctx, query,
		s.UserID,
		s.ItemID,
		string(s.Kind),
		string(s.DeviceType),
		formatTime(s.StartedAt),
		boolToInt(s.IsPaused),
		s.Accumulated.Milliseconds(),
		formatTime(s.LastResumedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting active session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking acquire result: %w", err)
	}
	if n == 1 {
		return s, nil
	}

	// Slot already held. Report the owner without touching the row.
	existing, err := r.Get(ctx, s.UserID, s.ItemID)
	if err != nil {
		return nil, fmt.Errorf("reading conflicting session: %w", err)
	}
	if existing.DeviceType == s.DeviceType {
		// Same device re-acquiring is a resume, not a conflict.
		return existing, nil
	}
	return nil, domain.NewDeviceConflict(existing.DeviceType)
}

func (r *SQLiteActiveSessionRepo) Get(ctx context.Context, userID, itemID string) (*domain.ActiveSession, error) {
	query := `SELECT ` + activeSessionColumns + `
		FROM active_sessions WHERE user_id = ? AND item_id = ?`
	row := r.conn.QueryRowContext(ctx, query, userID, itemID)
	return r.scanSession(row)
}

func (r *SQLiteActiveSessionRepo) Update(ctx context.Context, s *domain.ActiveSession) error {
	query := `UPDATE active_sessions
		SET kind = ?, device_type = ?, started_at = ?, is_paused = ?,
		    accumulated_ms = ?, last_resumed_at = ?, updated_at = ?
		WHERE user_id = ? AND item_id = ?`
	res, err := r.conn.ExecContext(ctx, query,
		string(s.Kind),
		string(s.DeviceType),
		formatTime(s.StartedAt),
		boolToInt(s.IsPaused),
		s.Accumulated.Milliseconds(),
		formatTime(s.LastResumedAt),
		formatTime(s.UpdatedAt),
		s.UserID,
		s.ItemID,
	)
	if err != nil {
		return fmt.Errorf("updating active session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("active session: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteActiveSessionRepo) Release(ctx context.Context, userID, itemID string) error {
	query := `DELETE FROM active_sessions WHERE user_id = ? AND item_id = ?`
	if _, err := r.conn.ExecContext(ctx, query, userID, itemID); err != nil {
		return fmt.Errorf("releasing active session: %w", err)
	}
	return nil
}

func (r *SQLiteActiveSessionRepo) ListByUser(ctx context.Context, userID string) ([]*domain.ActiveSession, error) {
	query := `SELECT ` + activeSessionColumns + `
		FROM active_sessions WHERE user_id = ? ORDER BY started_at`
	rows, err := r.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing active sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.ActiveSession
	for rows.Next() {
		s, err := scanSessionRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating active sessions: %w", err)
	}
	return sessions, nil
}

func (r *SQLiteActiveSessionRepo) scanSession(row *sql.Row) (*domain.ActiveSession, error) {
	s, err := scanSessionRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("active session: %w", ErrNotFound)
	}
	return s, err
}

// scanSessionRow scans one active_sessions row through any Scan function.
func scanSessionRow(scan func(dest ...any) error) (*domain.ActiveSession, error) {
	var s domain.ActiveSession
	var kind, device, startedStr, resumedStr, updatedStr string
	var paused int
	var accumulatedMS int64

	err := scan(
		&s.UserID, &s.ItemID, &kind, &device, &startedStr,
		&paused, &accumulatedMS, &resumedStr, &updatedStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning active session: %w", err)
	}

	s.Kind = domain.ExecutionKind(kind)
	s.DeviceType = domain.DeviceType(device)
	s.IsPaused = intToBool(paused)
	s.Accumulated = time.Duration(accumulatedMS) * time.Millisecond

	if s.StartedAt, err = time.Parse(time.RFC3339, startedStr); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if s.LastResumedAt, err = time.Parse(time.RFC3339, resumedStr); err != nil {
		return nil, fmt.Errorf("parsing last_resumed_at: %w", err)
	}
	if s.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}
