package domain

import "time"

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// TaskPriority enumerates urgency levels.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// Task is the aggregate for tracked work items.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	AuthorID    string
	AssigneeID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskOwnership carries only the identity fields the authorization layer
// compares against; the full entity is never loaded for an access check.
type TaskOwnership struct {
	AuthorEmail   string
	AssigneeEmail *string
}
