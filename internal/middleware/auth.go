package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a dedicated type for context keys to avoid collisions
type contextKey string

const (
	// AdminKey is the context key marking an authenticated admin request
	AdminKey contextKey = "is_admin"
)

// AdminAuthMiddleware authenticates administrators against the configured
// bearer tokens. Identity and credential management live outside this
// service; the admin surface only needs a shared-secret gate.
type AdminAuthMiddleware struct {
	tokens []string
}

// NewAdminAuthMiddleware creates an AdminAuthMiddleware for the given tokens
func NewAdminAuthMiddleware(tokens []string) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{tokens: tokens}
}

// Authenticate returns an Echo middleware that validates the bearer token
func (m *AdminAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "Missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			if !m.ValidateToken(parts[1]) {
				log.Debug().Str("path", c.Request().URL.Path).Msg("admin token rejected")
				return unauthorizedError(c, "Invalid admin token")
			}

			ctx := context.WithValue(c.Request().Context(), AdminKey, true)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// ValidateToken reports whether token matches a configured admin token.
// Comparison is constant-time per candidate.
func (m *AdminAuthMiddleware) ValidateToken(token string) bool {
	for _, t := range m.tokens {
		if len(t) == len(token) && subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the request passed admin authentication
func IsAdmin(c echo.Context) bool {
	v, ok := c.Request().Context().Value(AdminKey).(bool)
	return ok && v
}
