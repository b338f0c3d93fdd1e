// Package handlers wires the portal HTTP API: public submission endpoints,
// the bearer-gated admin dashboard API, and the API-key-gated site ingest
// endpoints used by the tracking snippet.
package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/bossbooker/portal/internal/auth"
	"github.com/bossbooker/portal/internal/httpx"
	"github.com/bossbooker/portal/internal/middleware"
	"github.com/bossbooker/portal/internal/mirror"
	"github.com/bossbooker/portal/internal/pricing"
	"github.com/bossbooker/portal/internal/realtime"
	"github.com/bossbooker/portal/internal/store"
	"github.com/bossbooker/portal/internal/tracker"
)

// Handlers bundles the services the API routes operate on.
type Handlers struct {
	Store   *store.DataStore
	Pricing *pricing.Service
	Tracker *tracker.Tracker
	Guard   *auth.Guard
	Hub     *realtime.Hub
	Mirror  *mirror.Mirror
	APIKeys []string
	Version string
}

// Register mounts every API route on app. Admin routes carry the bearer
// guard individually so the login endpoint stays open.
func (h *Handlers) Register(app *fiber.App) {
	app.Get("/health", h.HandleHealth)
	app.Get("/up", h.HandleUp)
	app.Get("/api/version", h.HandleVersion)

	app.Post("/api/contact", h.HandleContact)
	app.Post("/api/request", h.HandleRequest)
	app.Get("/api/pricing", h.HandlePublicPricing)
	app.Post("/api/quote", h.HandleQuote)

	app.Post("/api/admin/auth", h.HandleAdminAuth)
	app.Get("/api/admin/live", h.Hub.Handler(), h.liveAuth)

	adminAuth := middleware.AdminAuth(h.Guard)
	app.Get("/api/admin/contacts", h.HandleListContacts, adminAuth)
	app.Get("/api/admin/requests", h.HandleListRequests, adminAuth)
	app.Get("/api/admin/clients", h.HandleListClients, adminAuth)
	app.Delete("/api/admin/contact/:id", h.HandleDeleteContact, adminAuth)
	app.Delete("/api/admin/request/:id", h.HandleDeleteRequest, adminAuth)
	app.Delete("/api/admin/client/:id", h.HandleDeleteClient, adminAuth)
	app.Post("/api/admin/contact/accept", h.HandleAcceptContact, adminAuth)
	app.Post("/api/admin/request/accept", h.HandleAcceptRequest, adminAuth)
	app.Patch("/api/admin/contact/:id", h.HandleUpdateContact, adminAuth)
	app.Patch("/api/admin/request/:id", h.HandleUpdateRequest, adminAuth)
	app.Get("/api/admin/stats", h.HandleStats, adminAuth)
	app.Get("/api/admin/export", h.HandleExport, adminAuth)
	app.Get("/api/admin/export/:collection", h.HandleExportCSV, adminAuth)
	app.Post("/api/admin/clear", h.HandleClear, adminAuth)
	app.Get("/api/admin/pricing", h.HandleGetPricing, adminAuth)
	app.Put("/api/admin/pricing", h.HandlePutPricing, adminAuth)

	apiKey := middleware.APIKeyAuth(h.APIKeys)
	app.Post("/api/site/visitor", h.HandleSiteVisitor, apiKey)
	app.Post("/api/site/event", h.HandleSiteEvent, apiKey)
	app.Post("/api/site/lead", h.HandleSiteLead, apiKey)
	app.Post("/api/site/plan-request", h.HandleSitePlanRequest, apiKey)
}

// liveAuth admits websocket upgrades with the admin token in either the
// Authorization header or a token query parameter, since browser websocket
// clients cannot set headers.
func (h *Handlers) liveAuth(c fiber.Ctx) error {
	token := httpx.BearerToken(c)
	if token == "" {
		token = c.Query("token")
	}
	if !h.Guard.Verify(token) {
		return httpx.Error(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid credentials")
	}
	return c.Next()
}
