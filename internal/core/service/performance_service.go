package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

type performanceService struct {
	users   ports.UserFinder
	reviews ports.ReviewRepository
	logger  zerolog.Logger
	now     func() time.Time
}

func NewPerformanceService(users ports.UserFinder, reviews ports.ReviewRepository, logger zerolog.Logger) ports.PerformanceService {
	return &performanceService{users: users, reviews: reviews, logger: logger, now: time.Now}
}

// Create records a review written by caller. Managers may only review their
// direct reports.
func (s *performanceService) Create(ctx context.Context, caller *domain.User, in ports.CreateReviewInput) (*domain.PerformanceReview, error) {
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %.0f and %.0f", domain.ErrValidation, domain.MinRating, domain.MaxRating)
	}
	employee, err := s.users.FindByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := auth.CanActOn(caller, employee); err != nil {
		return nil, err
	}

	review, err := s.reviews.Create(ctx, &domain.PerformanceReview{
		EmployeeID: employee.ID,
		ManagerID:  caller.ID,
		Rating:     in.Rating,
		Comments:   strings.TrimSpace(in.Comments),
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("review_id", review.ID).Int64("employee_id", employee.ID).Int64("manager_id", caller.ID).Msg("review created")
	return review, nil
}

func (s *performanceService) ListMine(ctx context.Context, caller *domain.User) ([]*domain.PerformanceReview, error) {
	return s.reviews.ListByEmployees(ctx, caller.ID)
}

func (s *performanceService) ListForEmployee(ctx context.Context, caller *domain.User, employeeID int64) ([]*domain.PerformanceReview, error) {
	employee, err := s.users.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if err := auth.CanActOn(caller, employee); err != nil {
		return nil, err
	}
	return s.reviews.ListByEmployees(ctx, employee.ID)
}

func (s *performanceService) ListAll(ctx context.Context) ([]*domain.PerformanceReview, error) {
	return s.reviews.List(ctx)
}
