package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

var _ ports.UserService = (*UserService)(nil)

// UserService implements user administration and the role dashboards.
type UserService struct {
	users       ports.UserRepository
	reviews     ports.ReviewRepository
	feedback    ports.FeedbackRepository
	kpis        ports.KPIRepository
	hasher      *auth.PasswordHasher
	revocations ports.RevocationStore
	tokenTTL    time.Duration
	audit       ports.AuditRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

type UserServiceDeps struct {
	Users       ports.UserRepository
	Reviews     ports.ReviewRepository
	Feedback    ports.FeedbackRepository
	KPIs        ports.KPIRepository
	Hasher      *auth.PasswordHasher
	Revocations ports.RevocationStore
	// TokenTTL bounds how long subject revocations have to be remembered.
	TokenTTL time.Duration
	Audit    ports.AuditRecorder
}

func NewUserService(deps UserServiceDeps, logger zerolog.Logger) *UserService {
	revocations := deps.Revocations
	if revocations == nil {
		revocations = auth.NopRevocationStore{}
	}
	ttl := deps.TokenTTL
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	return &UserService{
		users:       deps.Users,
		reviews:     deps.Reviews,
		feedback:    deps.Feedback,
		kpis:        deps.KPIs,
		hasher:      deps.Hasher,
		revocations: revocations,
		tokenTTL:    ttl,
		audit:       auditOrNop(deps.Audit),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Create adds an account with any role. It applies the same validation as
// self-registration.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	name, email, err := validateAccount(in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == 0 {
		role = domain.RoleEmployee
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if in.ManagerID != nil {
		if err := checkManager(ctx, s.users, *in.ManagerID); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(in.Department),
		ManagerID:    in.ManagerID,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", created.ID).Str("role", created.Role.String()).Msg("user created")
	return created, nil
}

// Update applies a partial update. A change of role, password or active flag
// revokes the tokens already issued to the user.
func (s *UserService) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	revoke := false
	roleChanged := false

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
		}
		user.Name = name
	}
	if in.Email != nil {
		email, err := validateEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			existing, err := s.users.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, domain.ErrUserExists
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return nil, fmt.Errorf("update user: %w", err)
			}
			user.Email = email
		}
	}
	if in.Department != nil {
		user.Department = strings.TrimSpace(*in.Department)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		if *in.Role != user.Role {
			user.Role = *in.Role
			revoke, roleChanged = true, true
		}
	}
	if in.ManagerID != nil {
		if err := s.validateManagerFor(ctx, user.ID, *in.ManagerID); err != nil {
			return nil, err
		}
		managerID := *in.ManagerID
		user.ManagerID = &managerID
	}
	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.PasswordHash = hash
		revoke = true
	}
	if in.IsActive != nil && *in.IsActive != user.IsActive {
		user.IsActive = *in.IsActive
		revoke = true
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if revoke {
		s.revokeSubject(ctx, user.ID)
	}
	if roleChanged {
		s.audit.Record(ports.AuditEvent{
			Action:    ports.AuditRoleChanged,
			SubjectID: user.ID,
			Role:      user.Role.String(),
			Outcome:   "success",
			At:        s.now().UTC(),
		})
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeSubject(ctx, id)
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// AssignManager sets the manager of userID. The manager must hold the Manager
// or Admin role.
func (s *UserService) AssignManager(ctx context.Context, userID, managerID int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.validateManagerFor(ctx, userID, managerID); err != nil {
		return nil, err
	}
	user.ManagerID = &managerID
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive activates or deactivates an account. Deactivation takes effect on
// the next request that presents one of the user's tokens.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		return user, nil
	}
	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if !active {
		s.revokeSubject(ctx, id)
		s.audit.Record(ports.AuditEvent{
			Action:    ports.AuditDeactivated,
			SubjectID: id,
			Role:      user.Role.String(),
			Outcome:   "success",
			At:        s.now().UTC(),
		})
	}
	return user, nil
}

func (s *UserService) AdminDashboard(ctx context.Context) (*ports.AdminDashboard, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.List(ctx)
	if err != nil {
		return nil, err
	}
	feedbackCount, err := s.feedback.Count(ctx)
	if err != nil {
		return nil, err
	}
	results, achieved, err := s.kpis.CountResults(ctx, domain.KPIAchieved)
	if err != nil {
		return nil, err
	}

	avg, latest := summarizeReviews(reviews)
	dash := &ports.AdminDashboard{
		TotalEmployees:     total,
		AveragePerformance: avg,
		FeedbackCount:      feedbackCount,
		LatestRating:       latest,
	}
	if results > 0 {
		dash.KPIAchievementPercent = round2(float64(achieved) / float64(results) * 100)
	}
	return dash, nil
}

func (s *UserService) ManagerDashboard(ctx context.Context, caller *domain.User) (*ports.ManagerDashboard, error) {
	team, err := s.users.ListByManager(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	dash := &ports.ManagerDashboard{TeamSize: len(team)}
	if len(team) == 0 {
		return dash, nil
	}

	ids := make([]int64, 0, len(team))
	for _, member := range team {
		ids = append(ids, member.ID)
	}
	reviews, err := s.reviews.ListByEmployees(ctx, ids...)
	if err != nil {
		return nil, err
	}
	feedback, err := s.feedback.ListByRecipients(ctx, ids...)
	if err != nil {
		return nil, err
	}
	dash.AveragePerformance, dash.LatestRating = summarizeReviews(reviews)
	dash.FeedbackCount = len(feedback)
	return dash, nil
}

func (s *UserService) EmployeeDashboard(ctx context.Context, caller *domain.User) (*ports.EmployeeDashboard, error) {
	reviews, err := s.reviews.ListByEmployees(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	feedback, err := s.feedback.ListByRecipients(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	avg, latest := summarizeReviews(reviews)
	if reviews == nil {
		reviews = []*domain.PerformanceReview{}
	}
	return &ports.EmployeeDashboard{
		AveragePerformance: avg,
		FeedbackCount:      len(feedback),
		LatestRating:       latest,
		Reviews:            reviews,
	}, nil
}

func (s *UserService) validateManagerFor(ctx context.Context, userID, managerID int64) error {
	if managerID == userID {
		return domain.ErrInvalidManager
	}
	return checkManager(ctx, s.users, managerID)
}

// revokeSubject is best effort: the account change is already stored, and an
// unreachable revocation list must not undo it.
func (s *UserService) revokeSubject(ctx context.Context, userID int64) {
	if err := s.revocations.RevokeSubject(ctx, userID, s.now(), s.tokenTTL); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to revoke subject tokens")
	}
}

// summarizeReviews returns the mean rating and the rating of the most recent
// review. latest is nil when there are no reviews.
func summarizeReviews(reviews []*domain.PerformanceReview) (avg float64, latest *float64) {
	if len(reviews) == 0 {
		return 0, nil
	}
	sorted := make([]*domain.PerformanceReview, len(reviews))
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	var sum float64
	for _, r := range sorted {
		sum += r.Rating
	}
	rating := sorted[0].Rating
	return round2(sum / float64(len(sorted))), &rating
}
