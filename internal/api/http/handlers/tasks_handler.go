package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/dto"
	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/service"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// TasksHandler manages task endpoints.
type TasksHandler struct {
	service *service.TaskService
	policy  *auth.Policy
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService, policy *auth.Policy) *TasksHandler {
	return &TasksHandler{service: taskService, policy: policy}
}

// List GET /api/tasks. Any authenticated caller.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	limit, offset := parsePage(c)
	tasks, err := h.service.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponses(tasks)})
}

// Get GET /api/tasks/:id. Any authenticated caller.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	task, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// ListByAuthor GET /api/tasks/author/:authorId. Any authenticated caller.
func (h *TasksHandler) ListByAuthor(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	limit, offset := parsePage(c)
	tasks, err := h.service.ListByAuthor(c.Context(), c.Params("authorId"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponses(tasks)})
}

// ListByAssignee GET /api/tasks/assignee/:assigneeId. Any authenticated caller.
func (h *TasksHandler) ListByAssignee(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	limit, offset := parsePage(c)
	tasks, err := h.service.ListByAssignee(c.Context(), c.Params("assigneeId"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponses(tasks)})
}

// Create POST /api/tasks. Admin only.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	principal, err := requireAuthorized(c, h.policy, nil)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Title == "" || req.Description == "" || req.AuthorID == "" {
		return apperrors.NewValidationError("title, description, author_id required")
	}

	task, err := h.service.Create(c.Context(), principal.Email, service.TaskCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		AuthorID:    req.AuthorID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Update PUT /api/tasks/:id. Admin only.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	principal, err := requireAuthorized(c, h.policy, nil)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	task, err := h.service.Update(c.Context(), principal.Email, c.Params("id"), service.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Delete DELETE /api/tasks/:id. Admin only.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	if _, err := requireAuthorized(c, h.policy, nil); err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UpdateStatus PUT /api/tasks/:id/status. Admin or the task's assignee.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	taskID := c.Params("id")
	principal, err := requireAuthorized(c, h.policy, h.policy.TaskAssignee(taskID))
	if err != nil {
		return err
	}
	var req dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	task, err := h.service.UpdateStatus(c.Context(), principal.Email, taskID, domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// UpdatePriority PUT /api/tasks/:id/priority. Admin only.
func (h *TasksHandler) UpdatePriority(c *fiber.Ctx) error {
	principal, err := requireAuthorized(c, h.policy, nil)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskPriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	task, err := h.service.UpdatePriority(c.Context(), principal.Email, c.Params("id"), domain.TaskPriority(req.Priority))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// UpdateAssignee PUT /api/tasks/:id/assignee. Admin only.
func (h *TasksHandler) UpdateAssignee(c *fiber.Ctx) error {
	principal, err := requireAuthorized(c, h.policy, nil)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskAssigneeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id required")
	}

	task, err := h.service.UpdateAssignee(c.Context(), principal.Email, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}
