package service

import (
	"context"
	"time"

	"gradehub/internal/auth"
	"gradehub/internal/errs"
	"gradehub/internal/models"
	"gradehub/internal/policy"
)

type TaskService struct {
	tasks TaskStore
	subs  SubmissionStore
}

func NewTaskService(tasks TaskStore, subs SubmissionStore) *TaskService {
	return &TaskService{tasks: tasks, subs: subs}
}

func (s *TaskService) Create(ctx context.Context, caller *auth.Claims, title, description string, deadline time.Time) (*models.Task, error) {
	if err := policy.Can(caller, policy.ManageTasks, ""); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	task := &models.Task{
		Title:       title,
		Description: description,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = id
	return task, nil
}

func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.tasks.FindAll(ctx)
}

func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errs.New(errs.NotFound, "task not found")
	}
	return task, nil
}

// Update applies the provided fields only; empty title/description and a
// zero deadline leave the stored values untouched. A task that already has
// submissions is frozen.
func (s *TaskService) Update(ctx context.Context, caller *auth.Claims, id, title, description string, deadline *time.Time) (*models.Task, error) {
	if err := policy.Can(caller, policy.ManageTasks, ""); err != nil {
		return nil, err
	}
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.subs.CountByTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errs.New(errs.Conflict, "cannot update task that already has submissions")
	}

	if title != "" {
		task.Title = title
	}
	if description != "" {
		task.Description = description
	}
	if deadline != nil {
		task.Deadline = *deadline
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, id, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, caller *auth.Claims, id string) error {
	if err := policy.Can(caller, policy.ManageTasks, ""); err != nil {
		return err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.subs.CountByTask(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.New(errs.Conflict, "cannot delete task that already has submissions")
	}
	return s.tasks.Delete(ctx, id)
}
