package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/domain"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller for the remainder of one
// request. Immutable once created; an absent principal means anonymous.
type Principal struct {
	Email string
	Role  domain.RoleName
}

// IsAdmin reports whether the principal carries the administrator role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}

// setPrincipal publishes the resolved principal into the request context.
// Called at most once per request by the authentication middleware;
// re-setting the same value is a no-op, a different value mid-request is a
// programming error.
func setPrincipal(c *fiber.Ctx, principal *Principal) {
	if existing, ok := PrincipalFromContext(c); ok {
		if *existing == *principal {
			return
		}
		panic(fmt.Sprintf("request principal already set to %s", existing.Email))
	}
	c.Locals(principalKey, principal)
}

// clearPrincipal tears down the request principal. Runs unconditionally when
// the request completes so no identity leaks into a recycled context.
func clearPrincipal(c *fiber.Ctx) {
	c.Locals(principalKey, nil)
}

// PrincipalFromContext retrieves the authenticated caller, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}
