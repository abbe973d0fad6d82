package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/renzoku/internal/db"
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/repository"
	"github.com/alexanderramin/renzoku/internal/timeutil"
)

type statsService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver

	now func() time.Time
}

func NewStatsService(uow db.UnitOfWork, observers ...UseCaseObserver) StatsService {
	return &statsService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *statsService) Recompute(ctx context.Context, userID, itemID string, kind domain.ExecutionKind) (err error) {
	defer s.observe(ctx, "stats-recompute", s.now(), map[string]any{"item": itemID, "kind": string(kind)}, &err)

	if err = validKind(kind); err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return s.recomputeAggregates(ctx, tx, userID, itemID, kind)
	})
	return wrapTxErr(err)
}

func (s *statsService) ResetLogs(ctx context.Context, userID, itemID string, kind domain.ExecutionKind, scope domain.ResetScope, date timeutil.Day) (deleted int64, err error) {
	defer s.observe(ctx, "stats-reset-logs", s.now(), map[string]any{"item": itemID, "scope": string(scope)}, &err)

	if err = validKind(kind); err != nil {
		return 0, err
	}
	if !domain.ValidResetScopes[string(scope)] {
		return 0, domain.NewInvalidState("unknown reset scope")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLogs := repository.NewSQLiteExecutionLogRepo(tx)

		var txErr error
		switch scope {
		case domain.ResetToday:
			start, end := date.Bounds()
			deleted, txErr = txLogs.DeleteByItemAndRange(ctx, userID, itemID, start, end)
		default:
			deleted, txErr = txLogs.DeleteByItem(ctx, userID, itemID)
		}
		if txErr != nil {
			return domain.NewDatabaseError(txErr)
		}

		// The aggregate cache is rebuilt inside the same transaction so a
		// reader never sees deleted logs still counted.
		return s.recomputeAggregates(ctx, tx, userID, itemID, kind)
	})
	if err != nil {
		return 0, wrapTxErr(err)
	}
	return deleted, nil
}

// recomputeAggregates overwrites the item's cached totals from the surviving
// completed log entries: one all-time pass and one bounded to today's
// 24-hour window.
func (s *statsService) recomputeAggregates(ctx context.Context, tx db.DBTX, userID, itemID string, kind domain.ExecutionKind) error {
	txLogs := repository.NewSQLiteExecutionLogRepo(tx)

	allTime, err := txLogs.AggregateCompleted(ctx, userID, itemID, nil, nil)
	if err != nil {
		return domain.NewDatabaseError(err)
	}
	start, end := timeutil.DayOf(s.now()).Bounds()
	today, err := txLogs.AggregateCompleted(ctx, userID, itemID, &start, &end)
	if err != nil {
		return domain.NewDatabaseError(err)
	}

	switch kind {
	case domain.KindHabit:
		txHabits := repository.NewSQLiteHabitRepo(tx)
		if err := txHabits.SetAggregates(ctx, userID, itemID, today.Total, allTime.Total, allTime.Count); err != nil {
			return itemError(err, kind, itemID)
		}
	default:
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := txTasks.SetAggregates(ctx, userID, itemID, today.Total, allTime.Total, allTime.Count); err != nil {
			return itemError(err, kind, itemID)
		}
	}
	return nil
}

func (s *statsService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  s.now().Sub(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}

// wrapTxErr keeps typed errors intact and wraps anything else as a database
// failure.
func wrapTxErr(err error) error {
	if err == nil {
		return nil
	}
	var op *domain.OpError
	if errors.As(err, &op) {
		return err
	}
	return domain.NewDatabaseError(err)
}
