package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

// Authenticator turns a raw bearer token into a live user: validate the token,
// consult the revocation list, then resolve the subject.
type Authenticator struct {
	tokens      *TokenService
	resolver    *IdentityResolver
	revocations ports.RevocationStore
}

// NewAuthenticator wires the pipeline. A nil revocation store disables
// revocation, which leaves tokens valid until they expire.
func NewAuthenticator(tokens *TokenService, resolver *IdentityResolver, revocations ports.RevocationStore) *Authenticator {
	if revocations == nil {
		revocations = NopRevocationStore{}
	}
	return &Authenticator{tokens: tokens, resolver: resolver, revocations: revocations}
}

// Authenticate returns the caller behind rawToken. Every identity failure
// satisfies domain.IsUnauthenticated.
func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (*domain.User, *Claims, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, nil, fmt.Errorf("%w: empty token", domain.ErrTokenMalformed)
	}

	claims, err := a.tokens.Validate(rawToken)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := a.revocations.IsRevoked(ctx, claims.ID, claims.UserID, claims.IssueTime())
	if err != nil {
		return nil, nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, nil, domain.ErrTokenRevoked
	}

	user, err := a.resolver.Resolve(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// NopRevocationStore never revokes anything.
type NopRevocationStore struct{}

func (NopRevocationStore) RevokeToken(context.Context, string, time.Time) error { return nil }

func (NopRevocationStore) RevokeSubject(context.Context, int64, time.Time, time.Duration) error {
	return nil
}

func (NopRevocationStore) IsRevoked(context.Context, string, int64, time.Time) (bool, error) {
	return false, nil
}
