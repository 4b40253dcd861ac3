package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/api/metrics"
	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

// UnauthorizedMessage is the single message sent for every 401, whatever the
// underlying cause.
const UnauthorizedMessage = "could not validate credentials"

// Authenticator turns a raw bearer token into the current user.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*domain.User, *auth.Claims, error)
}

// Unauthorized builds the 401 response for err and sets the bearer challenge.
func Unauthorized(c echo.Context, err error) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, UnauthorizedMessage).SetInternal(err)
}

// Authenticate validates the bearer token and injects the resolved user into
// the context.
func Authenticate(authenticator Authenticator, audit ports.AuditRecorder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err == nil {
				var user *domain.User
				var claims *auth.Claims
				user, claims, err = authenticator.Authenticate(c.Request().Context(), raw)
				if err == nil {
					metrics.TokenChecksTotal.WithLabelValues("ok").Inc()
					SetIdentity(c, user, claims, raw)
					return next(c)
				}
			}

			result := tokenFailure(err)
			metrics.TokenChecksTotal.WithLabelValues(result).Inc()
			if !domain.IsUnauthenticated(err) {
				log.Error().Err(err).Str("path", c.Path()).Msg("token check failed")
				return fmt.Errorf("authenticate: %w", err)
			}

			if audit != nil {
				audit.Record(ports.AuditEvent{
					Action:    ports.AuditTokenRejected,
					Outcome:   "denied",
					Reason:    result,
					RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
					Path:      c.Path(),
					At:        time.Now().UTC(),
				})
			}
			return Unauthorized(c, err)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", domain.ErrTokenMalformed)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("%w: invalid authorization header", domain.ErrTokenMalformed)
	}
	return strings.TrimSpace(parts[1]), nil
}

// tokenFailure names err for metrics and the audit trail.
func tokenFailure(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, domain.ErrSubjectNotFound):
		return "subject_not_found"
	case errors.Is(err, domain.ErrSubjectInactive):
		return "subject_inactive"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	default:
		return "error"
	}
}
