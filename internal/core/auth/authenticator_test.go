package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

type stubRevocations struct {
	tokens   map[string]bool
	subjects map[int64]time.Time
	err      error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{tokens: map[string]bool{}, subjects: map[int64]time.Time{}}
}

func (s *stubRevocations) RevokeToken(_ context.Context, id string, _ time.Time) error {
	s.tokens[id] = true
	return nil
}

func (s *stubRevocations) RevokeSubject(_ context.Context, subjectID int64, at time.Time, _ time.Duration) error {
	s.subjects[subjectID] = at
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, id string, subjectID int64, issuedAt time.Time) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.tokens[id] {
		return true, nil
	}
	at, ok := s.subjects[subjectID]
	return ok && issuedAt.UnixMilli() <= at.UnixMilli(), nil
}

func TestAuthenticator_Authenticate(t *testing.T) {
	tokens := newTestTokens(t)
	finder := newStubUserFinder(&domain.User{ID: 1, Role: domain.RoleManager, IsActive: true})
	a := NewAuthenticator(tokens, NewIdentityResolver(finder), nil)

	token, _ := tokens.Issue(1, domain.RoleManager)
	user, claims, err := a.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != 1 || claims.UserID != 1 {
		t.Fatalf("unexpected identity: %+v %+v", user, claims)
	}
}

func TestAuthenticator_Failures(t *testing.T) {
	tokens := newTestTokens(t)
	finder := newStubUserFinder(
		&domain.User{ID: 1, Role: domain.RoleEmployee, IsActive: true},
		&domain.User{ID: 2, Role: domain.RoleEmployee, IsActive: false},
	)
	a := NewAuthenticator(tokens, NewIdentityResolver(finder), nil)

	expired, _ := tokens.IssueWithTTL(1, domain.RoleEmployee, -time.Second)
	inactive, _ := tokens.Issue(2, domain.RoleEmployee)
	missing, _ := tokens.Issue(3, domain.RoleEmployee)

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "   ", domain.ErrTokenMalformed},
		{"garbage", "abc.def.ghi", domain.ErrTokenMalformed},
		{"expired", expired, domain.ErrTokenExpired},
		{"inactive", inactive, domain.ErrSubjectInactive},
		{"missing", missing, domain.ErrSubjectNotFound},
	}
	for _, tc := range cases {
		_, _, err := a.Authenticate(context.Background(), tc.token)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if !domain.IsUnauthenticated(err) {
			t.Errorf("%s: expected unauthenticated classification, got %v", tc.name, err)
		}
	}
}

func TestAuthenticator_Revocation(t *testing.T) {
	tokens := newTestTokens(t)
	finder := newStubUserFinder(&domain.User{ID: 1, Role: domain.RoleEmployee, IsActive: true})
	revocations := newStubRevocations()
	a := NewAuthenticator(tokens, NewIdentityResolver(finder), revocations)
	ctx := context.Background()

	token, _ := tokens.Issue(1, domain.RoleEmployee)
	_, claims, err := a.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	_ = revocations.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time)
	if _, _, err := a.Authenticate(ctx, token); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}

	other, _ := tokens.Issue(1, domain.RoleEmployee)
	_ = revocations.RevokeSubject(ctx, 1, time.Now(), time.Hour)
	if _, _, err := a.Authenticate(ctx, other); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected subject-wide revocation, got %v", err)
	}

	// Token validation itself is unaffected by revocation.
	if _, err := tokens.Validate(other); err != nil {
		t.Fatalf("Validate should still accept the signature: %v", err)
	}
}

func TestAuthenticator_LoginAfterSubjectRevocationSameSecond(t *testing.T) {
	tokens := newTestTokens(t)
	finder := newStubUserFinder(&domain.User{ID: 1, Role: domain.RoleEmployee, IsActive: true})
	revocations := newStubRevocations()
	a := NewAuthenticator(tokens, NewIdentityResolver(finder), revocations)
	ctx := context.Background()

	revokedAt := time.UnixMilli(1_700_000_000_100)
	tokens.now = func() time.Time { return revokedAt.Add(-50 * time.Millisecond) }
	before, _ := tokens.Issue(1, domain.RoleEmployee)
	_ = revocations.RevokeSubject(ctx, 1, revokedAt, time.Hour)

	tokens.now = func() time.Time { return revokedAt.Add(400 * time.Millisecond) }
	after, _ := tokens.Issue(1, domain.RoleEmployee)

	if _, _, err := a.Authenticate(ctx, before); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("token issued before the revocation: expected ErrTokenRevoked, got %v", err)
	}
	if _, _, err := a.Authenticate(ctx, after); err != nil {
		t.Fatalf("token issued later in the same second should be accepted: %v", err)
	}
}

func TestAuthenticator_RevocationStoreFailure(t *testing.T) {
	tokens := newTestTokens(t)
	finder := newStubUserFinder(&domain.User{ID: 1, Role: domain.RoleEmployee, IsActive: true})
	revocations := newStubRevocations()
	revocations.err = errors.New("redis down")
	a := NewAuthenticator(tokens, NewIdentityResolver(finder), revocations)

	token, _ := tokens.Issue(1, domain.RoleEmployee)
	_, _, err := a.Authenticate(context.Background(), token)
	if err == nil || domain.IsUnauthenticated(err) {
		t.Fatalf("expected an infrastructure error, got %v", err)
	}
}
