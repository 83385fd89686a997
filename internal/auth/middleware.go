package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/repository"
)

// AuthMiddleware resolves bearer tokens into request principals. It runs
// once per request and never blocks the pipeline: a missing, malformed or
// invalid token degrades to anonymous, and the authorization policy at the
// protected operation turns anonymous access into a denial.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger}
}

// Handle establishes the request's principal and forwards the request
// exactly once. The principal is torn down when the downstream chain
// returns, on success and error paths alike.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if principal := m.resolve(c); principal != nil {
		setPrincipal(c, principal)
	}
	defer clearPrincipal(c)
	return c.Next()
}

// resolve extracts and verifies the bearer token, then loads the current
// account record so a token for a deleted account grants nothing. Returns
// nil for anonymous.
func (m *AuthMiddleware) resolve(c *fiber.Ctx) *Principal {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}

	subject, _, err := m.tokens.Verify(parts[1])
	if err != nil {
		m.logger.Debug("bearer token rejected", zap.Error(err))
		return nil
	}

	user, err := m.users.GetByEmail(c.Context(), subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			m.logger.Warn("token subject no longer resolvable", zap.String("subject", subject))
		} else {
			m.logger.Error("principal lookup failed", zap.String("subject", subject), zap.Error(err))
		}
		return nil
	}

	// The role is taken from the current record, not the token claim, so a
	// role change takes effect on the next request.
	return &Principal{Email: user.Email, Role: user.Role}
}
