package dto

import (
	"time"

	"github.com/spec-kit/task-tracker/internal/domain"
)

// TaskResponse is the outward view of a task.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	AuthorID    string    `json:"author_id"`
	AssigneeID  *string   `json:"assignee_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTaskRequest payload for new tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AuthorID    string  `json:"author_id"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
}

// UpdateTaskRequest payload for full task updates.
type UpdateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
}

// UpdateTaskStatusRequest payload for status-only updates.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// UpdateTaskPriorityRequest payload for priority-only updates.
type UpdateTaskPriorityRequest struct {
	Priority string `json:"priority"`
}

// UpdateTaskAssigneeRequest payload for reassignment.
type UpdateTaskAssigneeRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// NewTaskResponse maps a domain task.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		AuthorID:    task.AuthorID,
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// NewTaskResponses maps a slice of domain tasks.
func NewTaskResponses(tasks []domain.Task) []TaskResponse {
	items := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, NewTaskResponse(&tasks[i]))
	}
	return items
}
