package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/renzoku/internal/db"
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/timeutil"
)

// SQLiteCompletionRepo implements CompletionRepo using SQLite. The unique
// index on (habit_id, completed_date) makes the table the arbiter for
// duplicate completion toggles.
type SQLiteCompletionRepo struct {
	conn db.DBTX
}

// NewSQLiteCompletionRepo creates a repo bound to the given connection or
// transaction.
func NewSQLiteCompletionRepo(conn db.DBTX) *SQLiteCompletionRepo {
	return &SQLiteCompletionRepo{conn: conn}
}

func (r *SQLiteCompletionRepo) Create(ctx context.Context, c *domain.HabitCompletion) error {
	query := `INSERT INTO habit_completions (habit_id, completed_date, created_at)
		VALUES (?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		c.HabitID,
		string(c.CompletedDate),
		formatTime(c.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("habit completion for %s: %w", c.CompletedDate, ErrDuplicate)
		}
		return fmt.Errorf("inserting habit completion: %w", err)
	}
	return nil
}

func (r *SQLiteCompletionRepo) Delete(ctx context.Context, habitID string, date timeutil.Day) (bool, error) {
	query := `DELETE FROM habit_completions WHERE habit_id = ? AND completed_date = ?`
	res, err := r.conn.ExecContext(ctx, query, habitID, string(date))
	if err != nil {
		return false, fmt.Errorf("deleting habit completion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking delete result: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteCompletionRepo) Exists(ctx context.Context, habitID string, date timeutil.Day) (bool, error) {
	query := `SELECT COUNT(*) FROM habit_completions WHERE habit_id = ? AND completed_date = ?`
	var n int
	if err := r.conn.QueryRowContext(ctx, query, habitID, string(date)).Scan(&n); err != nil {
		return false, fmt.Errorf("checking habit completion: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteCompletionRepo) ListDates(ctx context.Context, habitID string) ([]timeutil.Day, error) {
	query := `SELECT DISTINCT completed_date FROM habit_completions
		WHERE habit_id = ? ORDER BY completed_date`
	rows, err := r.conn.QueryContext(ctx, query, habitID)
	if err != nil {
		return nil, fmt.Errorf("listing completion dates: %w", err)
	}
	defer rows.Close()

	var dates []timeutil.Day
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning completion date: %w", err)
		}
		dates = append(dates, timeutil.Day(s))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completion dates: %w", err)
	}
	return dates, nil
}

func (r *SQLiteCompletionRepo) CompletedHabitIDs(ctx context.Context, userID string, date timeutil.Day) (map[string]bool, error) {
	query := `SELECT c.habit_id
		FROM habit_completions c
		JOIN habits h ON c.habit_id = h.id
		WHERE h.user_id = ? AND c.completed_date = ?`
	rows, err := r.conn.QueryContext(ctx, query, userID, string(date))
	if err != nil {
		return nil, fmt.Errorf("listing completed habits: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning completed habit id: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completed habits: %w", err)
	}
	return ids, nil
}
