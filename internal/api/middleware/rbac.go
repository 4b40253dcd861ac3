package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/talentpulse/performance-api/internal/api/metrics"
	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

// RequireGate admits only users whose role passes gate. It must run after
// Authenticate.
func RequireGate(gate auth.Gate, audit ports.AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			err := gate.Check(user)
			if err == nil {
				metrics.AccessDecisionsTotal.WithLabelValues(gate.Name(), "allow").Inc()
				return next(c)
			}
			if !domain.IsForbidden(err) {
				return Unauthorized(c, err)
			}

			metrics.AccessDecisionsTotal.WithLabelValues(gate.Name(), "deny").Inc()
			if audit != nil {
				audit.Record(ports.AuditEvent{
					Action:    ports.AuditForbidden,
					SubjectID: user.ID,
					Role:      user.Role.String(),
					Outcome:   "denied",
					Reason:    gate.Name(),
					RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
					Path:      c.Path(),
					At:        time.Now().UTC(),
				})
			}

			return echo.NewHTTPError(http.StatusForbidden, err.Error()).SetInternal(err)
		}
	}
}
