package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/taskboard/internal/platform/requestctx"
	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	apperrors "github.com/louisbranch/taskboard/internal/services/tasks/platform/errors"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage"
	"github.com/louisbranch/taskboard/internal/services/tasks/task"
)

type service struct {
	tasks storage.TaskStore
	now   func() time.Time
	newID func() (string, error)
}

func newService(deps module.Dependencies) service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return service{tasks: deps.Tasks, now: now, newID: deps.NewID}
}

func (s service) listPending(ctx context.Context) ([]task.Task, error) {
	return s.list(ctx, storage.TaskFilterPending)
}

func (s service) listCompleted(ctx context.Context) ([]task.Task, error) {
	return s.list(ctx, storage.TaskFilterCompleted)
}

func (s service) list(ctx context.Context, filter storage.TaskFilter) ([]task.Task, error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.tasks.FindTasksByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return items, nil
}

func (s service) create(ctx context.Context, fields task.Fields) (task.Task, error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return task.Task{}, err
	}
	created, err := task.New(ownerID, fields, s.now, s.newID)
	if err != nil {
		return task.Task{}, mapFieldError(err)
	}
	if err := s.tasks.InsertTask(ctx, created); err != nil {
		return task.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return created, nil
}

func (s service) get(ctx context.Context, taskID string) (task.Task, error) {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return task.Task{}, err
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return task.Task{}, errTaskNotFound()
	}
	found, err := s.tasks.FindTask(ctx, ownerID, taskID)
	if err != nil {
		return task.Task{}, mapStoreError(err, "find task")
	}
	return found, nil
}

// update replaces the editable fields of an owned task.
func (s service) update(ctx context.Context, taskID string, fields task.Fields) (task.Task, error) {
	current, err := s.get(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}
	updated, err := current.Apply(fields)
	if err != nil {
		return task.Task{}, mapFieldError(err)
	}
	if err := s.tasks.UpdateTask(ctx, updated); err != nil {
		return task.Task{}, mapStoreError(err, "update task")
	}
	return updated, nil
}

// complete stamps the completion time; repeated calls overwrite it.
func (s service) complete(ctx context.Context, taskID string) (task.Task, error) {
	current, err := s.get(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}
	completed := current.Complete(s.now())
	if err := s.tasks.UpdateTask(ctx, completed); err != nil {
		return task.Task{}, mapStoreError(err, "complete task")
	}
	return completed, nil
}

func (s service) delete(ctx context.Context, taskID string) error {
	ownerID, err := requireOwner(ctx)
	if err != nil {
		return err
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return errTaskNotFound()
	}
	if err := s.tasks.DeleteTask(ctx, ownerID, taskID); err != nil {
		return mapStoreError(err, "delete task")
	}
	return nil
}

// requireOwner returns the authenticated user id carried by ctx; every task
// query is scoped to it.
func requireOwner(ctx context.Context) (string, error) {
	ownerID := strings.TrimSpace(requestctx.UserIDFromContext(ctx))
	if ownerID == "" {
		return "", apperrors.E(apperrors.KindUnauthorized, "user id is required")
	}
	return ownerID, nil
}

func errTaskNotFound() error {
	return apperrors.EK(apperrors.KindNotFound, "error.task_not_found", "task not found")
}

func mapStoreError(err error, action string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return errTaskNotFound()
	}
	return fmt.Errorf("%s: %w", action, err)
}

func mapFieldError(err error) error {
	if errors.Is(err, task.ErrTitleRequired) || errors.Is(err, task.ErrTitleTooLong) {
		return apperrors.EK(apperrors.KindInvalidInput, "error.invalid_data", err.Error())
	}
	return err
}
