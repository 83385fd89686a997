package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/config"
	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/repository"
)

// SeedService ensures the bootstrap accounts exist at startup. Idempotent:
// existing accounts are left untouched.
type SeedService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewSeedService builds the service.
func NewSeedService(users repository.UserRepository, bcryptCost int, logger *zap.Logger) *SeedService {
	return &SeedService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// Run seeds the configured admin and user accounts.
func (s *SeedService) Run(ctx context.Context, cfg config.SeedConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if err := s.ensureAccount(ctx, cfg.AdminEmail, cfg.AdminPassword, domain.RoleAdmin); err != nil {
		return err
	}
	return s.ensureAccount(ctx, cfg.UserEmail, cfg.UserPassword, domain.RoleUser)
}

func (s *SeedService) ensureAccount(ctx context.Context, email, password string, role domain.RoleName) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	user := &domain.User{Email: email, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	s.logger.Info("seeded account", zap.String("email", email), zap.String("role", string(role)))
	return nil
}
