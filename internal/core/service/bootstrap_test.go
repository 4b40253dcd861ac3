package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

func TestEnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	hasher := newTestHasher(t)
	ctx := context.Background()
	admin := BootstrapAdmin{Email: " Admin@Example.com ", Password: "change-me"}

	if err := EnsureAdmin(ctx, repo, hasher, admin, zerolog.Nop()); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	user, err := repo.FindByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("expected admin to exist: %v", err)
	}
	if user.Role != domain.RoleAdmin || !user.IsActive || !hasher.Verify("change-me", user.PasswordHash) {
		t.Fatalf("unexpected bootstrap admin: %+v", user)
	}

	if err := EnsureAdmin(ctx, repo, hasher, admin, zerolog.Nop()); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("bootstrap must be idempotent, got %d users", len(repo.users))
	}
}

func TestEnsureAdmin_Disabled(t *testing.T) {
	repo := newStubUserRepo()
	if err := EnsureAdmin(context.Background(), repo, newTestHasher(t), BootstrapAdmin{}, zerolog.Nop()); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no admin should be created without credentials")
	}
}
