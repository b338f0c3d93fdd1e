package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

var startTime = time.Now()

// HandleHealth reports service health and uptime.
func (h *Handlers) HandleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"uptime":  int64(time.Since(startTime).Seconds()),
		"version": h.Version,
	})
}

// HandleUp is the bare liveness probe.
func (h *Handlers) HandleUp(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

// HandleVersion returns the running version.
func (h *Handlers) HandleVersion(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"version": h.Version})
}
