package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/bossbooker/portal/internal/config"
)

// CORS reflects the request Origin so the static site can call the API from
// any of its deployments. When trusted origins are configured only those
// hosts are reflected; an empty list reflects everything (the upstream
// worker's behavior).
func CORS(trustedOrigins []string) fiber.Handler {
	return func(c fiber.Ctx) error {
		origin := c.Get("Origin")
		if origin != "" && originAllowed(origin, trustedOrigins) {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
			c.Set("Access-Control-Max-Age", "86400")
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

func originAllowed(origin string, trusted []string) bool {
	if len(trusted) == 0 {
		return true
	}
	host, err := config.SanitizeOrigin(origin)
	if err != nil {
		return false
	}
	// Match with and without port.
	bare := host
	if i := strings.IndexByte(host, ':'); i >= 0 {
		bare = host[:i]
	}
	for _, t := range trusted {
		if host == t || bare == t {
			return true
		}
	}
	return false
}
