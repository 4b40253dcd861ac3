package ports

import (
	"context"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

// ReviewRepository persists performance reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.PerformanceReview) (*domain.PerformanceReview, error)
	List(ctx context.Context) ([]*domain.PerformanceReview, error)
	// ListByEmployees returns reviews for any of the given employees, newest first.
	ListByEmployees(ctx context.Context, employeeIDs ...int64) ([]*domain.PerformanceReview, error)
}
