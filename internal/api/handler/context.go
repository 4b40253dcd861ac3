package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/talentpulse/performance-api/internal/api/middleware"
	"github.com/talentpulse/performance-api/internal/core/domain"
)

// currentUser returns the caller resolved by the Authenticate middleware. A
// missing user means the route was registered without it, which is reported
// as unauthenticated rather than trusted.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrSubjectNotFound
	}
	return user, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// normalizer is implemented by requests whose fields are trimmed before the
// validate tags run.
type normalizer interface {
	normalize()
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
