package handler

import "strings"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=6"`
	Department string `json:"department"`
	ManagerID  *int64 `json:"manager_id" validate:"omitempty,gt=0"`
}

func (r *registerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// loginRequest accepts either a JSON body or an OAuth2 password form, where
// the identifier travels as username.
type loginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (r loginRequest) identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- Users ---

type createUserRequest struct {
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=6"`
	Role       string `json:"role"       validate:"omitempty,role"`
	Department string `json:"department"`
	ManagerID  *int64 `json:"manager_id" validate:"omitempty,gt=0"`
}

func (r *createUserRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

type updateUserRequest struct {
	Name       *string `json:"name"       validate:"omitempty,min=1"`
	Email      *string `json:"email"      validate:"omitempty,email"`
	Password   *string `json:"password"   validate:"omitempty,min=6"`
	Role       *string `json:"role"       validate:"omitempty,role"`
	Department *string `json:"department"`
	ManagerID  *int64  `json:"manager_id" validate:"omitempty,gt=0"`
	IsActive   *bool   `json:"is_active"`
}

func (r *updateUserRequest) normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		r.Email = &email
	}
}

// --- Performance ---

type createReviewRequest struct {
	EmployeeID int64    `json:"employee_id" validate:"required,gt=0"`
	Rating     *float64 `json:"rating"      validate:"required,gte=0,lte=5"`
	Comments   string   `json:"comments"`
}

// --- Feedback ---

type postFeedbackRequest struct {
	ToUserID    int64  `json:"to_user_id"   validate:"required,gt=0"`
	Message     string `json:"message"      validate:"required"`
	IsAnonymous bool   `json:"is_anonymous"`
}

func (r *postFeedbackRequest) normalize() {
	r.Message = strings.TrimSpace(r.Message)
}

// --- KPI ---

type createKPIRequest struct {
	Title      string   `json:"title"      validate:"required"`
	Target     float64  `json:"target"     validate:"required,gt=0"`
	Weightage  *float64 `json:"weightage"  validate:"omitempty,gte=0"`
	Department *string  `json:"department"`
}

type evaluateKPIRequest struct {
	KPIID         int64    `json:"kpi_id"         validate:"required,gt=0"`
	EmployeeID    int64    `json:"employee_id"    validate:"required,gt=0"`
	AchievedValue *float64 `json:"achieved_value" validate:"required"`
}
