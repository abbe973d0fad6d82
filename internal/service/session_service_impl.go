package service

import (
	"context"
	"time"

	"github.com/alexanderramin/renzoku/internal/db"
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/repository"
	"github.com/alexanderramin/renzoku/internal/timeutil"
	"github.com/google/uuid"
)

type sessionService struct {
	sessions repository.ActiveSessionRepo
	habits   repository.HabitRepo
	tasks    repository.TaskRepo
	logs     repository.ExecutionLogRepo
	uow      db.UnitOfWork
	observer UseCaseObserver

	// now is swapped out by tests that need deterministic intervals.
	now func() time.Time
}

func NewSessionService(
	sessions repository.ActiveSessionRepo,
	habits repository.HabitRepo,
	tasks repository.TaskRepo,
	logs repository.ExecutionLogRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) SessionService {
	return &sessionService{
		sessions: sessions,
		habits:   habits,
		tasks:    tasks,
		logs:     logs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *sessionService) Start(ctx context.Context, userID, itemID string, kind domain.ExecutionKind, device domain.DeviceType) (state *domain.ActiveSession, err error) {
	defer s.observe(ctx, "session-start", s.now(), map[string]any{"item": itemID, "device": string(device)}, &err)

	if err = validKind(kind); err != nil {
		return nil, err
	}
	if err = validDevice(device); err != nil {
		return nil, err
	}
	if err = s.itemExists(ctx, userID, itemID, kind); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &domain.ActiveSession{
		UserID:        userID,
		ItemID:        itemID,
		Kind:          kind,
		DeviceType:    device,
		StartedAt:     now,
		LastResumedAt: now,
		UpdatedAt:     now,
	}

	// The persistence layer arbitrates the race: the losing device gets a
	// DEVICE_CONFLICT carrying the owner, never a silent overwrite. An
	// acquire by the device that already owns the slot returns the
	// existing session unchanged.
	acquired, err := s.sessions.Acquire(ctx, session)
	if err != nil {
		return nil, sessionError(err, itemID)
	}
	return acquired, nil
}

func (s *sessionService) Pause(ctx context.Context, userID, itemID string) (state *domain.ActiveSession, err error) {
	defer s.observe(ctx, "session-pause", s.now(), map[string]any{"item": itemID}, &err)

	session, err := s.sessions.Get(ctx, userID, itemID)
	if err != nil {
		return nil, sessionError(err, itemID)
	}
	if err = session.Pause(s.now().UTC()); err != nil {
		return nil, err
	}
	if err = s.sessions.Update(ctx, session); err != nil {
		return nil, sessionError(err, itemID)
	}
	return session, nil
}

func (s *sessionService) Resume(ctx context.Context, userID, itemID string, device domain.DeviceType) (state *domain.ActiveSession, err error) {
	defer s.observe(ctx, "session-resume", s.now(), map[string]any{"item": itemID, "device": string(device)}, &err)

	if err = validDevice(device); err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, userID, itemID)
	if err != nil {
		return nil, sessionError(err, itemID)
	}
	// Re-check ownership: another device could have force-cleaned the slot
	// and re-acquired it since this device paused.
	if session.DeviceType != device {
		return nil, domain.NewDeviceConflict(session.DeviceType)
	}
	if err = session.Resume(s.now().UTC()); err != nil {
		return nil, err
	}
	if err = s.sessions.Update(ctx, session); err != nil {
		return nil, sessionError(err, itemID)
	}
	return session, nil
}

func (s *sessionService) Stop(ctx context.Context, userID, itemID string, isCompleted bool) (result *StopResult, err error) {
	defer s.observe(ctx, "session-stop", s.now(), map[string]any{"item": itemID, "completed": isCompleted}, &err)

	now := s.now().UTC()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteActiveSessionRepo(tx)
		txLogs := repository.NewSQLiteExecutionLogRepo(tx)

		session, txErr := txSessions.Get(ctx, userID, itemID)
		if txErr != nil {
			return sessionError(txErr, itemID)
		}

		total := session.TotalDuration(now)
		entry := &domain.ExecutionLog{
			ID:          uuid.New().String(),
			UserID:      userID,
			ItemID:      itemID,
			Kind:        session.Kind,
			StartedAt:   session.StartedAt,
			EndedAt:     now,
			Duration:    total,
			DeviceType:  session.DeviceType,
			IsCompleted: isCompleted,
			CreatedAt:   now,
		}
		if txErr = txLogs.Create(ctx, entry); txErr != nil {
			return domain.NewDatabaseError(txErr)
		}
		if txErr = txSessions.Release(ctx, userID, itemID); txErr != nil {
			return domain.NewDatabaseError(txErr)
		}

		if isCompleted {
			// Aggregate columns move in the same transaction as the log
			// write, as single atomic increments.
			var todayDelta time.Duration
			if timeutil.DayOf(entry.StartedAt) == timeutil.DayOf(now) {
				todayDelta = total
			}
			if txErr = s.applyCompleted(ctx, tx, session.Kind, userID, itemID, total, todayDelta, now); txErr != nil {
				return txErr
			}
		}

		result = &StopResult{LogID: entry.ID, Duration: total, IsCompleted: isCompleted}
		return nil
	})
	if err != nil {
		// A failed stop leaves every row untouched.
		return nil, wrapTxErr(err)
	}
	return result, nil
}

func (s *sessionService) ForceCleanup(ctx context.Context, userID, itemID string) (err error) {
	defer s.observe(ctx, "session-force-cleanup", s.now(), map[string]any{"item": itemID}, &err)

	if err = s.sessions.Release(ctx, userID, itemID); err != nil {
		return domain.NewDatabaseError(err)
	}
	return nil
}

func (s *sessionService) Current(ctx context.Context, userID, itemID string) (*domain.ActiveSession, error) {
	session, err := s.sessions.Get(ctx, userID, itemID)
	if err != nil {
		return nil, sessionError(err, itemID)
	}
	return session, nil
}

func (s *sessionService) ListActive(ctx context.Context, userID string) ([]*domain.ActiveSession, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewDatabaseError(err)
	}
	return sessions, nil
}

func (s *sessionService) History(ctx context.Context, userID, itemID string) ([]*domain.ExecutionLog, error) {
	entries, err := s.logs.ListByItem(ctx, userID, itemID)
	if err != nil {
		return nil, domain.NewDatabaseError(err)
	}
	return entries, nil
}

// applyCompleted routes the aggregate increment to the owning item table
// and, for tasks, marks the item done.
func (s *sessionService) applyCompleted(ctx context.Context, tx db.DBTX, kind domain.ExecutionKind, userID, itemID string, total, todayDelta time.Duration, now time.Time) error {
	switch kind {
	case domain.KindHabit:
		txHabits := repository.NewSQLiteHabitRepo(tx)
		if err := txHabits.ApplyCompletedStop(ctx, userID, itemID, total, todayDelta); err != nil {
			return itemError(err, domain.KindHabit, itemID)
		}
	case domain.KindTask:
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := txTasks.ApplyCompletedStop(ctx, userID, itemID, total, todayDelta); err != nil {
			return itemError(err, domain.KindTask, itemID)
		}
		if err := txTasks.MarkDone(ctx, userID, itemID, now); err != nil {
			return itemError(err, domain.KindTask, itemID)
		}
	default:
		return domain.NewInvalidState("unknown execution kind on active session")
	}
	return nil
}

func (s *sessionService) itemExists(ctx context.Context, userID, itemID string, kind domain.ExecutionKind) error {
	switch kind {
	case domain.KindHabit:
		_, err := s.habits.GetByID(ctx, userID, itemID)
		return itemError(err, kind, itemID)
	default:
		_, err := s.tasks.GetByID(ctx, userID, itemID)
		return itemError(err, kind, itemID)
	}
}

func (s *sessionService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  s.now().Sub(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}
