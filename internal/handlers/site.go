package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/bossbooker/portal/internal/httpx"
	"github.com/bossbooker/portal/internal/tracker"
)

// HandleSiteVisitor upserts a visitor profile from the tracking snippet.
func (h *Handlers) HandleSiteVisitor(c fiber.Ctx) error {
	var b tracker.VisitorBeacon
	if err := c.Bind().Body(&b); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Invalid JSON body")
	}
	if b.VisitorID == "" {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "visitorId is required")
	}

	if !h.Tracker.TrackVisitor(b, httpx.ClientIP(c)) {
		return httpx.Error(c, fiber.StatusInternalServerError, "Storage error", "Could not save visitor")
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleSiteEvent logs an analytics event from the tracking snippet.
func (h *Handlers) HandleSiteEvent(c fiber.Ctx) error {
	var b tracker.EventBeacon
	if err := c.Bind().Body(&b); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Invalid JSON body")
	}

	event := h.Tracker.TrackEvent(b)
	if event == nil {
		return httpx.Error(c, fiber.StatusInternalServerError, "Storage error", "Could not save event")
	}

	h.Hub.Notify("event", event.ID)
	h.Mirror.ForwardEvent(*event)

	return c.JSON(fiber.Map{"success": true, "id": event.ID})
}

// HandleSiteLead stores a lead relayed by a remote site, same shape as the
// public contact endpoint.
func (h *Handlers) HandleSiteLead(c fiber.Ctx) error {
	return h.HandleContact(c)
}

// HandleSitePlanRequest stores a plan request relayed by a remote site.
func (h *Handlers) HandleSitePlanRequest(c fiber.Ctx) error {
	return h.HandleRequest(c)
}
