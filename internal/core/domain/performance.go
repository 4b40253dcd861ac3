package domain

import "time"

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// PerformanceReview is a rating a manager gives to one of their reports.
type PerformanceReview struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	ManagerID  int64     `json:"manager_id"`
	Rating     float64   `json:"rating"`
	Comments   string    `json:"comments,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
