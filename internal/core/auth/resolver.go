package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

// IdentityResolver maps validated claims to the live user record. It reads
// through to the store on every call.
type IdentityResolver struct {
	users ports.UserFinder
}

func NewIdentityResolver(users ports.UserFinder) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve loads the token subject. It fails with domain.ErrSubjectNotFound or
// domain.ErrSubjectInactive; store failures are returned wrapped.
func (r *IdentityResolver) Resolve(ctx context.Context, claims *Claims) (*domain.User, error) {
	if claims == nil {
		return nil, domain.ErrTokenMalformed
	}

	user, err := r.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %d", domain.ErrSubjectNotFound, claims.UserID)
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user %d", domain.ErrSubjectInactive, user.ID)
	}
	return user, nil
}
