package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/bossbooker/portal/internal/httpx"
)

// KeyPrefix is required on every site ingest key.
const KeyPrefix = "bb_sk_"

// APIKeyAuth validates site ingest keys. Keys arrive via X-API-Key or as a
// bearer token.
func APIKeyAuth(keys []string) fiber.Handler {
	return func(c fiber.Ctx) error {
		key := extractAPIKey(c)
		if key == "" {
			return httpx.Error(c, fiber.StatusUnauthorized, "Unauthorized", "Missing API key")
		}
		if !strings.HasPrefix(key, KeyPrefix) {
			return httpx.Error(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid API key format")
		}

		for _, candidate := range keys {
			if subtle.ConstantTimeCompare([]byte(key), []byte(candidate)) == 1 {
				return c.Next()
			}
		}
		return httpx.Error(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid API key")
	}
}

// extractAPIKey pulls the key from X-API-Key or Authorization: Bearer.
func extractAPIKey(c fiber.Ctx) string {
	if key := c.Get("X-API-Key"); key != "" {
		return key
	}
	return httpx.BearerToken(c)
}
