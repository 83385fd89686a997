package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/domain"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	for email, u := range f.byEmail {
		if u.ID == id {
			delete(f.byEmail, email)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) {
	var users []domain.User
	for _, u := range f.byEmail {
		users = append(users, *u)
	}
	return users, nil
}

func newMiddlewareFixture() (*TokenManager, *fakeUserRepo, *fiber.App) {
	tokens := NewTokenManager("test-secret", time.Hour)
	users := &fakeUserRepo{byEmail: map[string]*domain.User{
		"user@example.com": {ID: "u-1", Email: "user@example.com", Role: domain.RoleUser},
	}}
	mw := NewAuthMiddleware(tokens, users, zap.NewNop())

	app := fiber.New()
	app.Use(mw.Handle)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(principal.Email + " " + string(principal.Role))
	})
	return tokens, users, app
}

func whoami(t *testing.T, app *fiber.App, authorization string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMiddlewareValidToken(t *testing.T) {
	tokens, _, app := newMiddlewareFixture()
	token, _, err := tokens.Issue("user@example.com", domain.RoleUser)
	require.NoError(t, err)

	assert.Equal(t, "user@example.com ROLE_USER", whoami(t, app, "Bearer "+token))
}

func TestMiddlewareRoleReadFromRecord(t *testing.T) {
	// Role changes take effect on the next request: the token still says
	// ROLE_USER, the account record now says ROLE_ADMIN.
	tokens, users, app := newMiddlewareFixture()
	token, _, err := tokens.Issue("user@example.com", domain.RoleUser)
	require.NoError(t, err)

	users.byEmail["user@example.com"].Role = domain.RoleAdmin
	assert.Equal(t, "user@example.com ROLE_ADMIN", whoami(t, app, "Bearer "+token))
}

func TestMiddlewareAnonymousPassThrough(t *testing.T) {
	tokens, _, app := newMiddlewareFixture()

	expired := NewTokenManager("test-secret", time.Minute,
		WithClock(func() time.Time { return time.Now().Add(-time.Hour) }))
	expiredToken, _, err := expired.Issue("user@example.com", domain.RoleUser)
	require.NoError(t, err)

	unknownToken, _, err := tokens.Issue("ghost@example.com", domain.RoleUser)
	require.NoError(t, err)

	cases := map[string]string{
		"no header":        "",
		"wrong scheme":     "Basic dXNlcjpwYXNz",
		"bare token":       "just-a-token",
		"garbage token":    "Bearer not.a.token",
		"expired token":    "Bearer " + expiredToken,
		"unknown subject":  "Bearer " + unknownToken,
		"wrong signature":  "Bearer " + mustIssueOther(t),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, "anonymous", whoami(t, app, header))
		})
	}
}

func mustIssueOther(t *testing.T) string {
	t.Helper()
	other := NewTokenManager("other-secret", time.Hour)
	token, _, err := other.Issue("user@example.com", domain.RoleUser)
	require.NoError(t, err)
	return token
}

func TestMiddlewareNoLeakBetweenRequests(t *testing.T) {
	tokens, _, app := newMiddlewareFixture()
	token, _, err := tokens.Issue("user@example.com", domain.RoleUser)
	require.NoError(t, err)

	require.Equal(t, "user@example.com ROLE_USER", whoami(t, app, "Bearer "+token))
	assert.Equal(t, "anonymous", whoami(t, app, ""))
}
