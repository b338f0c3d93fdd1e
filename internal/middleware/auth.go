// Package middleware provides the request guards for the portal API: admin
// bearer auth, site API key auth, and origin-reflecting CORS.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/bossbooker/portal/internal/auth"
	"github.com/bossbooker/portal/internal/httpx"
)

// AdminAuth requires a bearer token matching the admin password.
func AdminAuth(guard *auth.Guard) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := httpx.BearerToken(c)
		if token == "" {
			return httpx.Error(c, fiber.StatusUnauthorized, "Unauthorized", "No authorization header")
		}
		if !guard.Verify(token) {
			return httpx.Error(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid credentials")
		}
		return c.Next()
	}
}
