package handler

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/talentpulse/performance-api/internal/api/middleware"
	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/domain"
)

func newTestContext(t *testing.T, method, target, body, contentType string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec), rec
}

func newJSONContext(t *testing.T, method, target, body string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	return newTestContext(t, method, target, body, echo.MIMEApplicationJSON)
}

func withUser(c echo.Context, u *domain.User) {
	middleware.SetIdentity(c, u, &auth.Claims{UserID: u.ID, Role: u.Role}, "raw-token")
}

// serve runs h and renders any returned error the way echo would.
func serve(e *echo.Echo, c echo.Context, h echo.HandlerFunc) error {
	err := h(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return err
}

func ptr[T any](v T) *T { return &v }
