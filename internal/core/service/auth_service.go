package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

const tokenTypeBearer = "bearer"

var _ ports.AuthService = (*AuthService)(nil)

// AuthService implements registration, login and logout.
type AuthService struct {
	users       ports.UserRepository
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
	revocations ports.RevocationStore
	audit       ports.AuditRecorder
	logger      zerolog.Logger

	// dummyHash is verified against when the account does not exist, so a
	// missing user costs the same as a wrong password.
	dummyHash string
	now       func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	revocations ports.RevocationStore,
	audit ports.AuditRecorder,
	logger zerolog.Logger,
) (*AuthService, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if revocations == nil {
		revocations = auth.NopRevocationStore{}
	}
	return &AuthService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		revocations: revocations,
		audit:       auditOrNop(audit),
		logger:      logger,
		dummyHash:   dummy,
		now:         time.Now,
	}, nil
}

// Register creates an active Employee account.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name, email, err := validateAccount(in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	if in.ManagerID != nil {
		if err := checkManager(ctx, s.users, *in.ManagerID); err != nil {
			return nil, err
		}
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
		Department:   strings.TrimSpace(in.Department),
		ManagerID:    in.ManagerID,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login verifies the password of the account identified by email (or, failing
// that, by name) and issues a token. Email is the account identifier; a name
// only works when exactly one user has it.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		s.hasher.Verify(password, s.dummyHash)
		s.recordLogin(0, "", "invalid_credentials")
		return nil, domain.ErrCredentialMismatch
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordLogin(user.ID, user.Role.String(), "invalid_credentials")
		return nil, domain.ErrCredentialMismatch
	}
	if !user.IsActive {
		s.recordLogin(user.ID, user.Role.String(), "inactive")
		return nil, fmt.Errorf("%w: user %d", domain.ErrSubjectInactive, user.ID)
	}

	rehashed := false
	if s.hasher.NeedsRehash(user.PasswordHash) {
		rehashed = s.rehash(ctx, user, password)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.recordLogin(user.ID, user.Role.String(), "success")
	return &ports.LoginResult{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        user,
		Rehashed:    rehashed,
	}, nil
}

// Logout revokes the presented token. Without a revocation list this is a
// no-op and the token stays valid until it expires.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.tokens.Validate(rawToken)
	if err != nil {
		return err
	}
	if err := s.revocations.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.audit.Record(ports.AuditEvent{
		Action:    ports.AuditLogout,
		SubjectID: claims.UserID,
		Role:      claims.Role.String(),
		Outcome:   "success",
		At:        s.now().UTC(),
	})
	return nil
}

// Ping checks that the user store answers.
func (s *AuthService) Ping(ctx context.Context) error {
	_, err := s.users.Count(ctx)
	return err
}

func (s *AuthService) lookup(ctx context.Context, identifier string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.users.FindByEmail(ctx, normalizeEmail(identifier))
	if errors.Is(err, domain.ErrUserNotFound) {
		return s.users.FindByName(ctx, identifier)
	}
	return user, err
}

// rehash upgrades a legacy credential. Failure is logged, never fatal: the old
// hash keeps working.
func (s *AuthService) rehash(ctx context.Context, user *domain.User, password string) bool {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("credential rehash failed")
		return false
	}
	previous := user.PasswordHash
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		user.PasswordHash = previous
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to store rehashed credential")
		return false
	}
	s.logger.Info().Int64("user_id", user.ID).Str("scheme", s.hasher.Preferred()).Msg("credential upgraded")
	return true
}

func (s *AuthService) recordLogin(userID int64, role, outcome string) {
	s.audit.Record(ports.AuditEvent{
		Action:    ports.AuditLogin,
		SubjectID: userID,
		Role:      role,
		Outcome:   outcome,
		At:        s.now().UTC(),
	})
}
