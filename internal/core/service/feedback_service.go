package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

type feedbackService struct {
	users    ports.UserFinder
	feedback ports.FeedbackRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewFeedbackService(users ports.UserFinder, feedback ports.FeedbackRepository, logger zerolog.Logger) ports.FeedbackService {
	return &feedbackService{users: users, feedback: feedback, logger: logger, now: time.Now}
}

// Post stores a feedback message in pending state. Anonymous feedback does not
// keep its sender.
func (s *feedbackService) Post(ctx context.Context, caller *domain.User, in ports.PostFeedbackInput) (*domain.Feedback, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: feedback message cannot be empty", domain.ErrValidation)
	}
	if domain.IsAbusive(message) {
		return nil, domain.ErrAbusiveContent
	}
	if _, err := s.users.FindByID(ctx, in.ToUserID); err != nil {
		return nil, err
	}

	fb := &domain.Feedback{
		ToUserID:    in.ToUserID,
		Message:     message,
		IsAnonymous: in.IsAnonymous,
		Status:      domain.FeedbackPending,
		CreatedAt:   s.now().UTC(),
	}
	if !in.IsAnonymous {
		from := caller.ID
		fb.FromUserID = &from
	}

	created, err := s.feedback.Create(ctx, fb)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("feedback_id", created.ID).Int64("to_user_id", created.ToUserID).Bool("anonymous", created.IsAnonymous).Msg("feedback posted")
	return created, nil
}

func (s *feedbackService) ListAll(ctx context.Context) ([]*domain.Feedback, error) {
	return s.feedback.List(ctx)
}

func (s *feedbackService) ListMine(ctx context.Context, caller *domain.User) ([]*domain.Feedback, error) {
	return s.feedback.ListByRecipients(ctx, caller.ID)
}

// Moderate moves feedback to approved or rejected.
func (s *feedbackService) Moderate(ctx context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error) {
	switch status {
	case domain.FeedbackApproved, domain.FeedbackRejected:
	default:
		return nil, fmt.Errorf("%w: unsupported status %q", domain.ErrValidation, status)
	}
	return s.feedback.SetStatus(ctx, id, status)
}

func (s *feedbackService) Delete(ctx context.Context, id int64) error {
	return s.feedback.Delete(ctx, id)
}
