package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

// DefaultTokenTTL applies when TokenConfig.TTL is not set.
const DefaultTokenTTL = 7 * 24 * time.Hour

var ErrMissingSigningKey = errors.New("token service: signing secret is required")

// TokenConfig is the process-wide token configuration, established once at
// startup. Changing Secret invalidates every previously issued token.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Claims is the payload of an identity token. Role is a snapshot taken at
// issuance; later role changes do not alter tokens already issued.
// IssuedAtMilli repeats iat at millisecond precision for revocation checks.
type Claims struct {
	UserID        int64       `json:"user_id"`
	Role          domain.Role `json:"role"`
	IssuedAtMilli int64       `json:"iat_ms,omitempty"`
	jwt.RegisteredClaims
}

// IssueTime returns the issue instant, preferring the millisecond claim.
func (c *Claims) IssueTime() time.Time {
	if c.IssuedAtMilli > 0 {
		return time.UnixMilli(c.IssuedAtMilli)
	}
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// TokenService issues and validates HS256-signed identity tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSigningKey
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// TTL returns the default token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the subject that expires after the default TTL.
func (s *TokenService) Issue(subjectID int64, role domain.Role) (string, error) {
	return s.IssueWithTTL(subjectID, role, s.ttl)
}

// IssueWithTTL signs a token expiring at now+ttl. A negative ttl yields a token
// that is already expired.
func (s *TokenService) IssueWithTTL(subjectID int64, role domain.Role, ttl time.Duration) (string, error) {
	if subjectID <= 0 {
		return "", fmt.Errorf("issue token: invalid subject id %d", subjectID)
	}
	if !role.Valid() {
		return "", fmt.Errorf("issue token: %w", domain.ErrInvalidRole)
	}

	now := s.now()
	claims := &Claims{
		UserID:        subjectID,
		Role:          role,
		IssuedAtMilli: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(subjectID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and expiry of a token. Failures wrap either
// domain.ErrTokenExpired or domain.ErrTokenMalformed.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	if !token.Valid {
		return nil, domain.ErrTokenMalformed
	}

	if claims.UserID <= 0 || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: missing subject or role", domain.ErrTokenMalformed)
	}
	if claims.Subject != "" && claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, fmt.Errorf("%w: subject mismatch", domain.ErrTokenMalformed)
	}
	return claims, nil
}
