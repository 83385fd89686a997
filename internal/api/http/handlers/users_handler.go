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

// UsersHandler exposes admin-only account management endpoints.
type UsersHandler struct {
	service *service.UserService
	policy  *auth.Policy
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, policy *auth.Policy) *UsersHandler {
	return &UsersHandler{service: userService, policy: policy}
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	if _, err := requireAuthorized(c, h.policy, nil); err != nil {
		return err
	}
	limit, offset := parsePage(c)
	users, err := h.service.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	if _, err := requireAuthorized(c, h.policy, nil); err != nil {
		return err
	}
	user, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// GetByEmail GET /api/users/email/:email.
func (h *UsersHandler) GetByEmail(c *fiber.Ctx) error {
	if _, err := requireAuthorized(c, h.policy, nil); err != nil {
		return err
	}
	user, err := h.service.GetByEmail(c.Context(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Create POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	if _, err := requireAuthorized(c, h.policy, nil); err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return apperrors.NewValidationError("email, password, role required")
	}

	user, err := h.service.Create(c.Context(), req.Email, req.Password, domain.RoleName(req.Role))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	if _, err := requireAuthorized(c, h.policy, nil); err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return apperrors.NewValidationError("email, password, role required")
	}

	user, err := h.service.Update(c.Context(), c.Params("id"), req.Email, req.Password, domain.RoleName(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if _, err := requireAuthorized(c, h.policy, nil); err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
