// Package httpx holds small HTTP helpers shared by handlers and middleware.
package httpx

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/bossbooker/portal/internal/logging"
)

// Error writes the standard {error, message} envelope.
func Error(c fiber.Ctx, status int, errMsg, message string) error {
	if status >= 500 {
		logging.L().Warn("server error response", "status", status, "error", errMsg)
	}
	return c.Status(status).JSON(fiber.Map{
		"error":   errMsg,
		"message": message,
	})
}

// QueryInt fetches an integer query parameter with a default value.
func QueryInt(c fiber.Ctx, key string, defaultValue int) int {
	val := c.Query(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// QueryInt64 fetches an int64 query parameter with a default value.
func QueryInt64(c fiber.Ctx, key string, defaultValue int64) int64 {
	val := c.Query(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ClientIP attempts to determine the real client IP respecting proxy headers.
func ClientIP(c fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}

// BearerToken extracts the token from an Authorization header, or "".
func BearerToken(c fiber.Ctx) string {
	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
