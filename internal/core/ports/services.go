package ports

import (
	"context"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

// RegisterInput carries self-registration data. Role is not accepted: every
// self-registered account starts as an Employee.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Department string
	ManagerID  *int64
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64 // seconds
	User        *domain.User
	// Rehashed is set when a legacy credential was upgraded during login.
	Rehashed bool
}

// AuthService implements registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Ping(ctx context.Context) error
}

// CreateUserInput carries admin-side user creation data.
type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Department string
	ManagerID  *int64
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Department *string
	Role       *domain.Role
	ManagerID  *int64
	Password   *string
	IsActive   *bool
}

// AdminDashboard aggregates organisation-wide figures.
type AdminDashboard struct {
	TotalEmployees        int64    `json:"total_employees"`
	AveragePerformance    float64  `json:"average_performance"`
	FeedbackCount         int64    `json:"feedback_count"`
	LatestRating          *float64 `json:"latest_rating"`
	KPIAchievementPercent float64  `json:"kpi_achievement_percent"`
}

// ManagerDashboard aggregates figures for the caller's direct reports.
type ManagerDashboard struct {
	TeamSize           int      `json:"team_size"`
	AveragePerformance float64  `json:"average_performance"`
	FeedbackCount      int      `json:"feedback_count"`
	LatestRating       *float64 `json:"latest_rating"`
}

// EmployeeDashboard aggregates the caller's own figures.
type EmployeeDashboard struct {
	AveragePerformance float64                     `json:"average_performance"`
	FeedbackCount      int                         `json:"feedback_count"`
	LatestRating       *float64                    `json:"latest_rating"`
	Reviews            []*domain.PerformanceReview `json:"reviews"`
}

// UserService implements user administration and dashboards.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	AssignManager(ctx context.Context, userID, managerID int64) (*domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.User, error)

	AdminDashboard(ctx context.Context) (*AdminDashboard, error)
	ManagerDashboard(ctx context.Context, caller *domain.User) (*ManagerDashboard, error)
	EmployeeDashboard(ctx context.Context, caller *domain.User) (*EmployeeDashboard, error)
}

// CreateReviewInput carries a new performance review.
type CreateReviewInput struct {
	EmployeeID int64
	Rating     float64
	Comments   string
}

// PerformanceService implements performance reviews.
type PerformanceService interface {
	Create(ctx context.Context, caller *domain.User, in CreateReviewInput) (*domain.PerformanceReview, error)
	ListMine(ctx context.Context, caller *domain.User) ([]*domain.PerformanceReview, error)
	ListForEmployee(ctx context.Context, caller *domain.User, employeeID int64) ([]*domain.PerformanceReview, error)
	ListAll(ctx context.Context) ([]*domain.PerformanceReview, error)
}

// PostFeedbackInput carries a new feedback message.
type PostFeedbackInput struct {
	ToUserID    int64
	Message     string
	IsAnonymous bool
}

// FeedbackService implements peer feedback and its moderation.
type FeedbackService interface {
	Post(ctx context.Context, caller *domain.User, in PostFeedbackInput) (*domain.Feedback, error)
	ListAll(ctx context.Context) ([]*domain.Feedback, error)
	ListMine(ctx context.Context, caller *domain.User) ([]*domain.Feedback, error)
	Moderate(ctx context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error)
	Delete(ctx context.Context, id int64) error
}

// CreateKPIInput carries a new KPI definition.
type CreateKPIInput struct {
	Title      string
	Target     float64
	Weightage  float64
	Department *string
}

// EvaluateKPIInput carries an achieved value to score.
type EvaluateKPIInput struct {
	KPIID         int64
	EmployeeID    int64
	AchievedValue float64
}

// KPIService implements KPI definitions and evaluation.
type KPIService interface {
	List(ctx context.Context) ([]*domain.KPI, error)
	Create(ctx context.Context, in CreateKPIInput) (*domain.KPI, error)
	Evaluate(ctx context.Context, caller *domain.User, in EvaluateKPIInput) (*domain.KPIResult, error)
}
