package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/domain"
)

const (
	userKey   = "auth.user"
	claimsKey = "auth.claims"
	tokenKey  = "auth.token"
)

// CurrentUser returns the user resolved by Authenticate, or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(userKey).(*domain.User)
	return u
}

// CurrentClaims returns the validated token claims, or nil.
func CurrentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

// RawToken returns the bearer token presented with the request.
func RawToken(c echo.Context) string {
	s, _ := c.Get(tokenKey).(string)
	return s
}

// SetIdentity stores an authenticated identity on the context.
func SetIdentity(c echo.Context, user *domain.User, claims *auth.Claims, raw string) {
	c.Set(userKey, user)
	c.Set(claimsKey, claims)
	c.Set(tokenKey, raw)
}
