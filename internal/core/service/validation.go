package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

// normalizeEmail is the canonical form used for storage and lookups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateAccount applies the single account validation policy shared by
// self-registration and admin user creation.
func validateAccount(name, email, password string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	email, err := validateEmail(email)
	if err != nil {
		return "", "", err
	}
	if err := validatePassword(password); err != nil {
		return "", "", err
	}
	return name, email, nil
}

func validateEmail(email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if at := strings.LastIndex(email, "@"); at <= 0 || at == len(email)-1 {
		return "", fmt.Errorf("%w: email must be a valid email", domain.ErrValidation)
	}
	return email, nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}
	return nil
}

// checkManager verifies that managerID references a user allowed to manage
// others.
func checkManager(ctx context.Context, users ports.UserFinder, managerID int64) error {
	manager, err := users.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidManager
		}
		return err
	}
	if !manager.Role.CanManage() {
		return domain.ErrInvalidManager
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
