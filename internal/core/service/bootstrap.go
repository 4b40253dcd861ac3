package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

// BootstrapAdmin describes the administrator account created on first start.
type BootstrapAdmin struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin creates an active Admin with the given credentials unless an
// account with that email already exists. An empty email or password disables
// bootstrapping.
func EnsureAdmin(ctx context.Context, users ports.UserRepository, hasher *auth.PasswordHasher, admin BootstrapAdmin, logger zerolog.Logger) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}
	name := admin.Name
	if name == "" {
		name = "admin"
	}
	name, email, err := validateAccount(name, admin.Email, admin.Password)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	if existing, err := users.FindByEmail(ctx, email); err == nil {
		if existing.Role != domain.RoleAdmin {
			logger.Warn().Int64("user_id", existing.ID).Msg("bootstrap admin email belongs to a non-admin account")
		}
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	created, err := users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	logger.Info().Int64("user_id", created.ID).Msg("bootstrap admin created")
	return nil
}
