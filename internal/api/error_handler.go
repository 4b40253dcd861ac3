package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/api/metrics"
	"github.com/talentpulse/performance-api/internal/api/middleware"
	"github.com/talentpulse/performance-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

const ownershipMessage = "you can only act on your own team members"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain errors
// to status codes and renders {"error": "<message>"}. Unexpected errors are
// logged and reported as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			log.Error().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrCredentialMismatch):
		return http.StatusUnauthorized, "incorrect email or password"
	case domain.IsUnauthenticated(err):
		return http.StatusUnauthorized, middleware.UnauthorizedMessage
	case errors.Is(err, domain.ErrOwnershipForbidden):
		metrics.OwnershipDenialsTotal.Inc()
		return http.StatusForbidden, ownershipMessage
	case errors.Is(err, domain.ErrRoleForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrFeedbackNotFound):
		return http.StatusNotFound, "feedback not found"
	case errors.Is(err, domain.ErrKPINotFound):
		return http.StatusNotFound, "kpi not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrAbusiveContent),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidManager):
		return http.StatusBadRequest, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
