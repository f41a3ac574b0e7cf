// Package middleware holds the fiber handlers that wrap every route:
// JWT authentication, request logging, and Prometheus instrumentation.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/splitledger/splitledger/internal/auth"
)

// UserIDKey is the fiber locals key the auth middleware stores the
// authenticated user ID under.
const UserIDKey = "user_id"

// RequireAuth validates the Bearer token on every request and stores the
// user ID in the request locals.
func RequireAuth(jwtManager *auth.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing auth token")
		}

		claims, err := jwtManager.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

// UserID returns the authenticated user ID stored by RequireAuth, or ""
// on unauthenticated routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
