package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/dto"
	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/service"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// CommentsHandler manages comment endpoints.
type CommentsHandler struct {
	service *service.CommentService
	policy  *auth.Policy
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService, policy *auth.Policy) *CommentsHandler {
	return &CommentsHandler{service: commentService, policy: policy}
}

// List GET /api/comments. Admin only.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	if _, err := requireAuthorized(c, h.policy, nil); err != nil {
		return err
	}
	limit, offset := parsePage(c)
	comments, err := h.service.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponses(comments)})
}

// Get GET /api/comments/:id. Admin or the comment's author.
func (h *CommentsHandler) Get(c *fiber.Ctx) error {
	commentID := c.Params("id")
	if _, err := requireAuthorized(c, h.policy, h.policy.CommentAuthor(commentID)); err != nil {
		return err
	}
	comment, err := h.service.GetByID(c.Context(), commentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Create POST /api/comments. Admin or the task's author/assignee. Anonymous
// callers get 401 before any payload validation; the ownership check itself
// needs the parsed task id, so it runs after.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Text == "" || req.TaskID == "" || req.AuthorID == "" {
		return apperrors.NewValidationError("text, task_id, author_id required")
	}

	principal, err := requireAuthorized(c, h.policy, h.policy.TaskAuthorOrAssignee(req.TaskID))
	if err != nil {
		return err
	}

	comment, err := h.service.Create(c.Context(), principal.Email, service.CommentCreateInput{
		Text:     req.Text,
		TaskID:   req.TaskID,
		AuthorID: req.AuthorID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Update PUT /api/comments/:id. Admin or the comment's author.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	commentID := c.Params("id")
	if _, err := requireAuthorized(c, h.policy, h.policy.CommentAuthor(commentID)); err != nil {
		return err
	}
	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Text == "" {
		return apperrors.NewValidationError("text required")
	}

	comment, err := h.service.Update(c.Context(), commentID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Delete DELETE /api/comments/:id. Admin or the comment's author.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	commentID := c.Params("id")
	if _, err := requireAuthorized(c, h.policy, h.policy.CommentAuthor(commentID)); err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), commentID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListByTask GET /api/comments/task/:taskId. Admin or the task's
// author/assignee.
func (h *CommentsHandler) ListByTask(c *fiber.Ctx) error {
	taskID := c.Params("taskId")
	if _, err := requireAuthorized(c, h.policy, h.policy.TaskAuthorOrAssignee(taskID)); err != nil {
		return err
	}
	limit, offset := parsePage(c)
	comments, err := h.service.ListByTask(c.Context(), taskID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponses(comments)})
}
