package ports

import (
	"context"
	"time"
)

// RevocationStore keeps the revoked-token list. Entries only need to live until
// the tokens they cover would have expired anyway.
type RevocationStore interface {
	// RevokeToken revokes a single token id until expiresAt.
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	// RevokeSubject revokes every token of subjectID issued at or before `at`.
	RevokeSubject(ctx context.Context, subjectID int64, at time.Time, ttl time.Duration) error
	// IsRevoked reports whether a token with the given id, subject and
	// issue time has been revoked.
	IsRevoked(ctx context.Context, tokenID string, subjectID int64, issuedAt time.Time) (bool, error)
}
