package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentpulse/performance-api/internal/core/ports"
)

var _ ports.RevocationStore = (*RevocationStore)(nil)

// RevocationStore keeps revoked tokens in Redis.
//
// Key formats:
//
//	revoked:jti:<token_id>   one token, expires with the token
//	revoked:sub:<subject_id> unix millisecond of the latest subject-wide revocation
type RevocationStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// RevokeToken marks a single token as revoked until it would have expired.
// Tokens that are already expired are skipped.
func (s *RevocationStore) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, tokenKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeSubject revokes every token of subjectID issued up to and including the
// millisecond of at. ttl should be the longest token lifetime in use.
func (s *RevocationStore) RevokeSubject(ctx context.Context, subjectID int64, at time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("revoke subject %d: non-positive ttl", subjectID)
	}
	if err := s.client.Set(ctx, subjectKey(subjectID), at.UnixMilli(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke subject %d: %w", subjectID, err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string, subjectID int64, issuedAt time.Time) (bool, error) {
	pipe := s.client.Pipeline()
	exists := pipe.Exists(ctx, tokenKey(tokenID))
	since := pipe.Get(ctx, subjectKey(subjectID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("revocation lookup: %w", err)
	}

	if exists.Val() > 0 {
		return true, nil
	}
	raw, err := since.Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("revocation lookup: %w", err)
	}
	return revokedSince(raw, issuedAt)
}

// revokedSince reports whether a token issued at issuedAt falls under a subject
// revocation stored as a unix millisecond.
func revokedSince(raw string, issuedAt time.Time) (bool, error) {
	at, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("revocation lookup: bad subject entry %q: %w", raw, err)
	}
	return issuedAt.UnixMilli() <= at, nil
}

func tokenKey(tokenID string) string {
	return "revoked:jti:" + tokenID
}

func subjectKey(subjectID int64) string {
	return "revoked:sub:" + strconv.FormatInt(subjectID, 10)
}
