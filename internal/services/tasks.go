package services

import (
	"context"

	"github.com/fq962/atom-challenge-api/internal/apperrors"
	"github.com/fq962/atom-challenge-api/internal/factory"
	"github.com/fq962/atom-challenge-api/internal/models"
)

// TaskRepository is the storage surface the task service needs;
// implemented by repositories.TaskRepository.
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	GetByID(ctx context.Context, id string) (models.Task, error)
	Insert(ctx context.Context, task models.Task) (models.Task, error)
	Update(ctx context.Context, id string, task models.Task) (models.Task, error)
	Delete(ctx context.Context, id string) error
}

type TaskService interface {
	ListTasks(ctx context.Context, callerID, requestedUserID string) ([]models.Task, error)
	CreateTask(ctx context.Context, callerID string, dto factory.CreateTaskDTO) (models.Task, error)
	UpdateTask(ctx context.Context, callerID, taskID string, patch factory.UpdateTaskDTO) (models.Task, error)
	DeleteTask(ctx context.Context, callerID, taskID string) error
}

type TaskServiceImpl struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskServiceImpl {
	return &TaskServiceImpl{repo: repo}
}

// ListTasks returns the caller's tasks. A requested user id other than
// the caller's own is rejected; listing is never cross-user.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, callerID, requestedUserID string) ([]models.Task, error) {
	target := callerID
	if requestedUserID != "" {
		if requestedUserID != callerID {
			return nil, apperrors.NewForbiddenError("cannot access another user's tasks")
		}
		target = requestedUserID
	}

	return s.repo.ListByOwner(ctx, target)
}

// CreateTask builds and stores a task owned by the caller. The owner
// is always the authenticated identity, never client input.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, callerID string, dto factory.CreateTaskDTO) (models.Task, error) {
	dto.OwnerID = callerID

	task, err := factory.NewTask(dto)
	if err != nil {
		return models.Task{}, err
	}

	return s.repo.Insert(ctx, task)
}

// UpdateTask re-checks stored ownership before mutating: unknown ids
// are 404, another user's task is 403.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, callerID, taskID string, patch factory.UpdateTaskDTO) (models.Task, error) {
	existing, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if existing.OwnerID != callerID {
		return models.Task{}, apperrors.NewForbiddenError("cannot modify another user's task")
	}

	updated, err := factory.ApplyUpdate(existing, patch)
	if err != nil {
		return models.Task{}, err
	}

	return s.repo.Update(ctx, taskID, updated)
}

// DeleteTask permanently removes a task after the same ownership check
// as UpdateTask. There is no soft delete.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, callerID, taskID string) error {
	existing, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if existing.OwnerID != callerID {
		return apperrors.NewForbiddenError("cannot delete another user's task")
	}

	return s.repo.Delete(ctx, taskID)
}
