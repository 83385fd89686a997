package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/auth"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// parsePage reads limit/offset query parameters with defaults.
func parsePage(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	return limit, offset
}

// requirePrincipal yields the authenticated caller or a 401. The
// authentication middleware never rejects requests itself, so every
// protected operation gates here.
func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

// requireAuthorized runs the access check for one protected operation:
// 401 for anonymous callers, 403 when the policy denies. A nil predicate
// marks an admin-only operation.
func requireAuthorized(c *fiber.Ctx, policy *auth.Policy, pred auth.Predicate) (*auth.Principal, error) {
	principal, err := requirePrincipal(c)
	if err != nil {
		return nil, err
	}
	decision, err := policy.Authorize(c.Context(), principal, pred)
	if err != nil {
		return nil, err
	}
	if !decision.Allow {
		return nil, apperrors.NewForbidden("access denied")
	}
	return principal, nil
}
