package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentpulse/performance-api/internal/api/metrics"
	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

type FeedbackHandler struct {
	service ports.FeedbackService
}

func NewFeedbackHandler(service ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Post submits feedback for another user.
//
// @Summary      Post feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postFeedbackRequest  true  "Feedback"
// @Success      201   {object}  domain.Feedback
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/feedback [post]
func (h *FeedbackHandler) Post(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req postFeedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.FeedbackSubmissionsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	fb, err := h.service.Post(c.Request().Context(), caller, ports.PostFeedbackInput{
		ToUserID:    req.ToUserID,
		Message:     req.Message,
		IsAnonymous: req.IsAnonymous,
	})
	switch {
	case err == nil:
		metrics.FeedbackSubmissionsTotal.WithLabelValues("accepted").Inc()
	case errors.Is(err, domain.ErrAbusiveContent):
		metrics.FeedbackSubmissionsTotal.WithLabelValues("abusive").Inc()
		return err
	default:
		metrics.FeedbackSubmissionsTotal.WithLabelValues("invalid").Inc()
		return err
	}
	return c.JSON(http.StatusCreated, fb)
}

// ListAll returns every feedback entry.
//
// @Summary      List feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Feedback
// @Router       /api/feedback [get]
func (h *FeedbackHandler) ListAll(c echo.Context) error {
	items, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilFeedback(items))
}

// ListMine returns feedback addressed to the caller.
//
// @Summary      My feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Feedback
// @Router       /api/feedback/me [get]
func (h *FeedbackHandler) ListMine(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilFeedback(items))
}

// Approve marks feedback as approved.
//
// @Summary      Approve feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Feedback ID"
// @Success      200  {object}  domain.Feedback
// @Failure      404  {object}  errorResponse
// @Router       /api/feedback/{id}/approve [put]
func (h *FeedbackHandler) Approve(c echo.Context) error {
	return h.moderate(c, domain.FeedbackApproved)
}

// Reject marks feedback as rejected.
//
// @Summary      Reject feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Feedback ID"
// @Success      200  {object}  domain.Feedback
// @Failure      404  {object}  errorResponse
// @Router       /api/feedback/{id}/reject [put]
func (h *FeedbackHandler) Reject(c echo.Context) error {
	return h.moderate(c, domain.FeedbackRejected)
}

func (h *FeedbackHandler) moderate(c echo.Context, status domain.FeedbackStatus) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	fb, err := h.service.Moderate(c.Request().Context(), id, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fb)
}

// Delete removes feedback.
//
// @Summary      Delete feedback
// @Tags         feedback
// @Security     BearerAuth
// @Param        id  path  int  true  "Feedback ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/feedback/{id} [delete]
func (h *FeedbackHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func nonNilFeedback(items []*domain.Feedback) []*domain.Feedback {
	if items == nil {
		return []*domain.Feedback{}
	}
	return items
}
