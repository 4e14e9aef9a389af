package api

import (
	"strings"

	"github.com/example/task-manager-api/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// SessionContextKey is the key used to store the authenticated session in
	// the Fiber context. The session carries the user snapshot and the exact
	// token that matched, which logout needs to know what to remove.
	SessionContextKey = "session"
)

// AuthMiddleware creates a middleware that validates bearer tokens against
// the auth module. A token that verifies but is no longer held in the user's
// session list is rejected the same way as a bad signature.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Authorization header is required",
			})
		}

		// Check Bearer prefix
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		// Extract token
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Token is required",
			})
		}

		// Validate token and session liveness
		session, err := authPort.ValidateSession(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Please authenticate",
			})
		}

		// Store session in context for use in handlers
		c.Locals(SessionContextKey, session)

		return c.Next()
	}
}
