package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	observer UseCaseObserver

	now func() time.Time
}

func NewTaskService(tasks repository.TaskRepo, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:    tasks,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *taskService) AddTask(ctx context.Context, userID, name string) (task *domain.Task, err error) {
	defer s.observe(ctx, "task-add", s.now(), map[string]any{"name": name}, &err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewInvalidState("task name must not be empty")
	}

	now := s.now().UTC()
	task = &domain.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.tasks.Create(ctx, task); err != nil {
		return nil, domain.NewDatabaseError(err)
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, userID string, includeDone bool) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx, userID, includeDone)
	if err != nil {
		return nil, domain.NewDatabaseError(err)
	}
	return tasks, nil
}

func (s *taskService) DeleteTask(ctx context.Context, userID, taskID string) (err error) {
	defer s.observe(ctx, "task-delete", s.now(), map[string]any{"task": taskID}, &err)

	if err = s.tasks.Delete(ctx, userID, taskID); err != nil {
		return itemError(err, domain.KindTask, taskID)
	}
	return nil
}

func (s *taskService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  s.now().Sub(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}
