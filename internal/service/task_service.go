package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// TaskCreateInput carries fields for new tasks.
type TaskCreateInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AuthorID    string
	AssigneeID  *string
}

// TaskUpdateInput carries fields for full task updates.
type TaskUpdateInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AssigneeID  *string
}

// TaskService coordinates task lifecycle operations.
type TaskService struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTaskService builds the service.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, dispatcher: dispatcher, logger: logger}
}

// List returns a page of tasks.
func (s *TaskService) List(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	return s.tasks.List(ctx, limit, offset)
}

// ListByAuthor returns tasks created by the given user.
func (s *TaskService) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]domain.Task, error) {
	return s.tasks.ListByAuthor(ctx, authorID, limit, offset)
}

// ListByAssignee returns tasks assigned to the given user.
func (s *TaskService) ListByAssignee(ctx context.Context, assigneeID string, limit, offset int) ([]domain.Task, error) {
	return s.tasks.ListByAssignee(ctx, assigneeID, limit, offset)
}

// GetByID fetches a single task.
func (s *TaskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", id)
		}
		return nil, err
	}
	return task, nil
}

// Create stores a new task. The author must exist; an unknown assignee is
// dropped to unassigned rather than rejected.
func (s *TaskService) Create(ctx context.Context, actor string, input TaskCreateInput) (*domain.Task, error) {
	if err := validateStatus(input.Status); err != nil {
		return nil, err
	}
	if err := validatePriority(input.Priority); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, input.AuthorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("author", input.AuthorID)
		}
		return nil, err
	}

	assigneeID := input.AssigneeID
	if assigneeID != nil {
		if _, err := s.users.GetByID(ctx, *assigneeID); err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
			assigneeID = nil
		}
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		AuthorID:    input.AuthorID,
		AssigneeID:  assigneeID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTaskCreated, task.ID, actor, events.TaskCreatedPayload{
		Title:      task.Title,
		Priority:   task.Priority,
		AssigneeID: task.AssigneeID,
	})
	return task, nil
}

// Update replaces the mutable fields of an existing task. Unlike Create, an
// unknown assignee here is an error.
func (s *TaskService) Update(ctx context.Context, actor, id string, input TaskUpdateInput) (*domain.Task, error) {
	if err := validateStatus(input.Status); err != nil {
		return nil, err
	}
	if err := validatePriority(input.Priority); err != nil {
		return nil, err
	}
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.AssigneeID != nil {
		if _, err := s.users.GetByID(ctx, *input.AssigneeID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("assignee", *input.AssigneeID)
			}
			return nil, err
		}
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.Priority = input.Priority
	task.AssigneeID = input.AssigneeID
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task and its comments.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("task", id)
		}
		return err
	}
	s.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

// UpdateStatus changes only the task's status.
func (s *TaskService) UpdateStatus(ctx context.Context, actor, id string, status domain.TaskStatus) (*domain.Task, error) {
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := task.Status
	task.Status = status
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTaskStatusChanged, task.ID, actor, events.TaskStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: status,
	})
	return task, nil
}

// UpdatePriority changes only the task's priority.
func (s *TaskService) UpdatePriority(ctx context.Context, actor, id string, priority domain.TaskPriority) (*domain.Task, error) {
	if err := validatePriority(priority); err != nil {
		return nil, err
	}
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldPriority := task.Priority
	task.Priority = priority
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTaskPriorityChanged, task.ID, actor, events.TaskPriorityChangedPayload{
		OldPriority: oldPriority,
		NewPriority: priority,
	})
	return task, nil
}

// UpdateAssignee reassigns the task; the new assignee must exist.
func (s *TaskService) UpdateAssignee(ctx context.Context, actor, id string, assigneeID string) (*domain.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignee", assigneeID)
		}
		return nil, err
	}

	task.AssigneeID = &assigneeID
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTaskAssigned, task.ID, actor, events.TaskAssignedPayload{
		AssigneeID: task.AssigneeID,
	})
	return task, nil
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, taskID, actor string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TaskID:    taskID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func validateStatus(status domain.TaskStatus) error {
	switch status {
	case domain.TaskStatusPending, domain.TaskStatusInProgress, domain.TaskStatusCompleted:
		return nil
	default:
		return apperrors.NewValidationError("unknown task status")
	}
}

func validatePriority(priority domain.TaskPriority) error {
	switch priority {
	case domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh:
		return nil
	default:
		return apperrors.NewValidationError("unknown task priority")
	}
}
