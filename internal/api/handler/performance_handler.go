package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

type PerformanceHandler struct {
	service ports.PerformanceService
}

func NewPerformanceHandler(service ports.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{service: service}
}

// Create records a performance review for one of the caller's reports.
//
// @Summary      Create review
// @Tags         performance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  domain.PerformanceReview
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/performance [post]
func (h *PerformanceHandler) Create(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.service.Create(c.Request().Context(), caller, ports.CreateReviewInput{
		EmployeeID: req.EmployeeID,
		Rating:     *req.Rating,
		Comments:   req.Comments,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

// ListMine returns the caller's own reviews.
//
// @Summary      My reviews
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.PerformanceReview
// @Router       /api/performance/me [get]
func (h *PerformanceHandler) ListMine(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	reviews, err := h.service.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilReviews(reviews))
}

// ListForEmployee returns reviews of one employee.
//
// @Summary      Employee reviews
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Employee ID"
// @Success      200  {array}   domain.PerformanceReview
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/performance/employee/{id} [get]
func (h *PerformanceHandler) ListForEmployee(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.service.ListForEmployee(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilReviews(reviews))
}

// ListAll returns every review.
//
// @Summary      All reviews
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.PerformanceReview
// @Router       /api/performance [get]
func (h *PerformanceHandler) ListAll(c echo.Context) error {
	reviews, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilReviews(reviews))
}

func nonNilReviews(r []*domain.PerformanceReview) []*domain.PerformanceReview {
	if r == nil {
		return []*domain.PerformanceReview{}
	}
	return r
}
