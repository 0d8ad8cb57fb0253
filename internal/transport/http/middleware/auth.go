package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/domain"
)

const principalKey = "principal"

// RequireAuth resolves the session token to its user and stores the
// principal in the request locals. The token travels in the Authorization
// bearer header, the X-Session-Token header, or (for websocket handshakes,
// where browsers cannot set headers) the "token" query parameter.
func RequireAuth(auth ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-Session-Token")
		if raw == "" {
			header := c.Get("Authorization")
			const prefix = "Bearer "
			if len(header) > len(prefix) && header[:len(prefix)] == prefix {
				raw = header[len(prefix):]
			}
		}
		if raw == "" {
			raw = c.Query("token")
		}

		token, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		user, err := auth.CurrentUser(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		c.Locals(principalKey, user)
		c.Locals("session_token", token)
		return c.Next()
	}
}

// RequireAdmin rejects non-admin principals. Must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := Principal(c)
		if user == nil || !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}

// Principal returns the authenticated user stored by RequireAuth, or nil.
func Principal(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(principalKey).(*domain.User)
	return user
}

// SessionToken returns the token RequireAuth validated for this request.
func SessionToken(c *fiber.Ctx) uuid.UUID {
	token, _ := c.Locals("session_token").(uuid.UUID)
	return token
}
