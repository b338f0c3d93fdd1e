package cli

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/bossbooker/portal/internal/httpx"
)

// createFiberConfig returns Fiber configuration. Unhandled errors come back
// in the same {error, message} envelope the handlers use.
func createFiberConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName: appName,
		// Use X-Forwarded-For to get real client IP behind reverse proxy
		ProxyHeader: fiber.HeaderXForwardedFor,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return httpx.Error(c, code, "Request failed", err.Error())
		},
	}
}
