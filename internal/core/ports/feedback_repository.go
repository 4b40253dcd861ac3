package ports

import (
	"context"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

// FeedbackRepository persists peer feedback. FindByID and SetStatus return
// domain.ErrFeedbackNotFound for unknown ids.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error)
	FindByID(ctx context.Context, id int64) (*domain.Feedback, error)
	List(ctx context.Context) ([]*domain.Feedback, error)
	ListByRecipients(ctx context.Context, userIDs ...int64) ([]*domain.Feedback, error)
	SetStatus(ctx context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
