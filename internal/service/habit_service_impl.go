package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/renzoku/internal/db"
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/repository"
	"github.com/alexanderramin/renzoku/internal/streak"
	"github.com/alexanderramin/renzoku/internal/timeutil"
	"github.com/google/uuid"
)

type habitService struct {
	habits      repository.HabitRepo
	completions repository.CompletionRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver

	now func() time.Time
}

func NewHabitService(
	habits repository.HabitRepo,
	completions repository.CompletionRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) HabitService {
	return &habitService{
		habits:      habits,
		completions: completions,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
		now:         time.Now,
	}
}

func (s *habitService) AddHabit(ctx context.Context, userID, name string) (habit *domain.Habit, err error) {
	defer s.observe(ctx, "habit-add", s.now(), map[string]any{"name": name}, &err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewInvalidState("habit name must not be empty")
	}

	now := s.now().UTC()
	habit = &domain.Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.habits.Create(ctx, habit); err != nil {
		return nil, domain.NewDatabaseError(err)
	}
	return habit, nil
}

func (s *habitService) ListHabits(ctx context.Context, userID string, includeArchived bool) ([]*domain.Habit, error) {
	habits, err := s.habits.List(ctx, userID, includeArchived)
	if err != nil {
		return nil, domain.NewDatabaseError(err)
	}
	return habits, nil
}

func (s *habitService) ArchiveHabit(ctx context.Context, userID, habitID string) (err error) {
	defer s.observe(ctx, "habit-archive", s.now(), map[string]any{"habit": habitID}, &err)

	if err = s.habits.Archive(ctx, userID, habitID); err != nil {
		return itemError(err, domain.KindHabit, habitID)
	}
	return nil
}

func (s *habitService) CompleteHabit(ctx context.Context, userID, habitID string) ToggleResult {
	return s.ToggleHabitCompletion(ctx, userID, habitID, true, nil)
}

func (s *habitService) ToggleHabitCompletion(ctx context.Context, userID, habitID string, completed bool, date *timeutil.Day) ToggleResult {
	var err error
	defer s.observe(ctx, "habit-toggle-completion", s.now(), map[string]any{"habit": habitID, "completed": completed}, &err)

	today := timeutil.DayOf(s.now())
	day := today
	if date != nil {
		day = *date
	}

	var result ToggleResult
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txHabits := repository.NewSQLiteHabitRepo(tx)
		txCompletions := repository.NewSQLiteCompletionRepo(tx)

		if _, txErr := txHabits.GetByID(ctx, userID, habitID); txErr != nil {
			return itemError(txErr, domain.KindHabit, habitID)
		}

		if completed {
			c := &domain.HabitCompletion{
				HabitID:       habitID,
				CompletedDate: day,
				CreatedAt:     s.now().UTC(),
			}
			txErr := txCompletions.Create(ctx, c)
			switch {
			case errors.Is(txErr, repository.ErrDuplicate):
				// Already marked: report and return without touching the
				// streak cache, which is unchanged by definition.
				result = ToggleResult{
					Success: true,
					Error:   domain.ErrCodeAlreadyCompleted,
					Message: fmt.Sprintf("habit already completed on %s", day),
				}
				return nil
			case txErr != nil:
				return domain.NewDatabaseError(txErr)
			}
		} else {
			removed, txErr := txCompletions.Delete(ctx, habitID, day)
			if txErr != nil {
				return domain.NewDatabaseError(txErr)
			}
			if !removed {
				result = ToggleResult{
					Success: true,
					Error:   domain.ErrCodeAlreadyCompleted,
					Message: fmt.Sprintf("habit was not completed on %s", day),
				}
				return nil
			}
		}

		// Full recomputation in the same transaction, never an incremental
		// adjustment: a toggle deep in history shifts every run after it.
		if txErr := s.recomputeStreak(ctx, txHabits, txCompletions, userID, habitID, today); txErr != nil {
			return txErr
		}
		result = ToggleResult{Success: true}
		return nil
	})
	if err != nil {
		return toggleFailure(err)
	}
	return result
}

func (s *habitService) GetHabitsWithCompletionForDate(ctx context.Context, userID string, date timeutil.Day) ([]HabitWithCompletion, error) {
	habits, err := s.habits.List(ctx, userID, false)
	if err != nil {
		return nil, domain.NewDatabaseError(err)
	}
	completed, err := s.completions.CompletedHabitIDs(ctx, userID, date)
	if err != nil {
		return nil, domain.NewDatabaseError(err)
	}

	out := make([]HabitWithCompletion, 0, len(habits))
	for _, h := range habits {
		out = append(out, HabitWithCompletion{Habit: h, IsCompleted: completed[h.ID]})
	}
	return out, nil
}

func (s *habitService) GetDisplayStreak(ctx context.Context, userID, habitID string) (int, error) {
	habit, err := s.habits.GetByID(ctx, userID, habitID)
	if err != nil {
		return 0, itemError(err, domain.KindHabit, habitID)
	}
	days, err := s.completions.ListDates(ctx, habitID)
	if err != nil {
		return 0, domain.NewDatabaseError(err)
	}
	return streak.Display(habit.CurrentStreak, days, timeutil.DayOf(s.now())), nil
}

func (s *habitService) recomputeStreak(ctx context.Context, habits repository.HabitRepo, completions repository.CompletionRepo, userID, habitID string, today timeutil.Day) error {
	days, err := completions.ListDates(ctx, habitID)
	if err != nil {
		return domain.NewDatabaseError(err)
	}
	st := streak.Compute(days, today)

	var last *timeutil.Day
	if st.LastCompleted != "" {
		last = &st.LastCompleted
	}
	if err := habits.SetStreak(ctx, userID, habitID, st.Current, st.Longest, last); err != nil {
		return itemError(err, domain.KindHabit, habitID)
	}
	return nil
}

func (s *habitService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  s.now().Sub(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}

// toggleFailure flattens an error into the ToggleResult shape the toggle
// operations report instead of a bare error.
func toggleFailure(err error) ToggleResult {
	return ToggleResult{
		Success: false,
		Error:   domain.CodeOf(err),
		Message: err.Error(),
	}
}
