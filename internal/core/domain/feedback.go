package domain

import (
	"strings"
	"time"
)

// FeedbackStatus is the moderation state of a feedback entry.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackApproved FeedbackStatus = "approved"
	FeedbackRejected FeedbackStatus = "rejected"
)

// Feedback is a peer message addressed to a user. FromUserID is nil when the
// sender chose to stay anonymous.
type Feedback struct {
	ID          int64          `json:"id"`
	FromUserID  *int64         `json:"from_user_id"`
	ToUserID    int64          `json:"to_user_id"`
	Message     string         `json:"message"`
	IsAnonymous bool           `json:"is_anonymous"`
	Status      FeedbackStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

var abusiveWords = []string{"badword", "idiot", "stupid"}

// IsAbusive reports whether text contains a blocked word, case-insensitively.
func IsAbusive(text string) bool {
	t := strings.ToLower(text)
	for _, w := range abusiveWords {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}
