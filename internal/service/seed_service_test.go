package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/config"
	"github.com/spec-kit/task-tracker/internal/domain"
)

func seedConfig() config.SeedConfig {
	return config.SeedConfig{
		Enabled:       true,
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin",
		UserEmail:     "user@example.com",
		UserPassword:  "user",
	}
}

func TestSeedCreatesBootstrapAccounts(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewSeedService(repo, bcrypt.MinCost, zap.NewNop())

	require.NoError(t, svc.Run(context.Background(), seedConfig()))

	admin, err := repo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NoError(t, auth.ComparePassword(admin.PasswordHash, "admin"))

	user, err := repo.GetByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewSeedService(repo, bcrypt.MinCost, zap.NewNop())

	require.NoError(t, svc.Run(context.Background(), seedConfig()))
	admin, err := repo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	firstHash := admin.PasswordHash

	require.NoError(t, svc.Run(context.Background(), seedConfig()))
	admin, err = repo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, firstHash, admin.PasswordHash)
	assert.Len(t, repo.byEmail, 2)
}

func TestSeedDisabled(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewSeedService(repo, bcrypt.MinCost, zap.NewNop())

	cfg := seedConfig()
	cfg.Enabled = false
	require.NoError(t, svc.Run(context.Background(), cfg))
	assert.Empty(t, repo.byEmail)
}
