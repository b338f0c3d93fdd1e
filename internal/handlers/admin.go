package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/bossbooker/portal/internal/httpx"
	"github.com/bossbooker/portal/internal/pricing"
	"github.com/bossbooker/portal/internal/store"
)

type authPayload struct {
	Password string `json:"password"`
}

// HandleAdminAuth exchanges the admin password for the dashboard token.
// Failed attempts count toward the lockout.
func (h *Handlers) HandleAdminAuth(c fiber.Ctx) error {
	var p authPayload
	if err := c.Bind().Body(&p); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Invalid JSON body")
	}
	if p.Password == "" {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Password is required")
	}

	result := h.Guard.Attempt(p.Password)
	if result.LockedOut {
		return httpx.Error(c, fiber.StatusLocked, "Locked out", result.Message())
	}
	if !result.OK {
		return httpx.Error(c, fiber.StatusUnauthorized, "Unauthorized", result.Message())
	}

	return c.JSON(fiber.Map{"success": true, "token": p.Password})
}

func recordQueryFromRequest(c fiber.Ctx) store.RecordQuery {
	return store.RecordQuery{
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		StartTime: httpx.QueryInt64(c, "start", 0),
		EndTime:   httpx.QueryInt64(c, "end", 0),
		Limit:     httpx.QueryInt(c, "limit", 0),
	}
}

// HandleListContacts returns leads newest-first, with optional status,
// search, time window and limit filters.
func (h *Handlers) HandleListContacts(c fiber.Ctx) error {
	return c.JSON(h.Store.ListLeads(recordQueryFromRequest(c)))
}

// HandleListRequests returns plan requests newest-first.
func (h *Handlers) HandleListRequests(c fiber.Ctx) error {
	return c.JSON(h.Store.ListPlanRequests(recordQueryFromRequest(c)))
}

// HandleListClients returns accepted clients newest-first.
func (h *Handlers) HandleListClients(c fiber.Ctx) error {
	return c.JSON(h.Store.ListClients())
}

// HandleDeleteContact removes a lead by id.
func (h *Handlers) HandleDeleteContact(c fiber.Ctx) error {
	if !h.Store.DeleteLead(c.Params("id")) {
		return httpx.Error(c, fiber.StatusNotFound, "Not found", "Contact not found")
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleDeleteRequest removes a plan request by id.
func (h *Handlers) HandleDeleteRequest(c fiber.Ctx) error {
	if !h.Store.DeletePlanRequest(c.Params("id")) {
		return httpx.Error(c, fiber.StatusNotFound, "Not found", "Request not found")
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleDeleteClient removes a client by id.
func (h *Handlers) HandleDeleteClient(c fiber.Ctx) error {
	if !h.Store.DeleteClient(c.Params("id")) {
		return httpx.Error(c, fiber.StatusNotFound, "Not found", "Client not found")
	}
	return c.JSON(fiber.Map{"success": true})
}

type acceptPayload struct {
	ID string `json:"id"`
}

// HandleAcceptContact promotes a lead to a client.
func (h *Handlers) HandleAcceptContact(c fiber.Ctx) error {
	var p acceptPayload
	if err := c.Bind().Body(&p); err != nil || p.ID == "" {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Contact id is required")
	}

	client := h.Store.AcceptLead(p.ID)
	if client == nil {
		return httpx.Error(c, fiber.StatusNotFound, "Not found", "Contact not found")
	}

	h.Hub.Notify("client", client.ID)
	return c.JSON(fiber.Map{"success": true, "client": client})
}

// HandleAcceptRequest promotes a plan request to a client.
func (h *Handlers) HandleAcceptRequest(c fiber.Ctx) error {
	var p acceptPayload
	if err := c.Bind().Body(&p); err != nil || p.ID == "" {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Request id is required")
	}

	client := h.Store.AcceptPlanRequest(p.ID)
	if client == nil {
		return httpx.Error(c, fiber.StatusNotFound, "Not found", "Request not found")
	}

	h.Hub.Notify("client", client.ID)
	return c.JSON(fiber.Map{"success": true, "client": client})
}

type updatePayload struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

func (p updatePayload) validate() (store.RecordUpdate, error) {
	if p.Status == nil && p.Notes == nil {
		return store.RecordUpdate{}, fmt.Errorf("nothing to update")
	}
	if p.Status != nil && !store.ValidStatus(*p.Status) {
		return store.RecordUpdate{}, fmt.Errorf("invalid status %q", *p.Status)
	}
	return store.RecordUpdate{Status: p.Status, Notes: p.Notes}, nil
}

// HandleUpdateContact changes a lead's status or notes.
func (h *Handlers) HandleUpdateContact(c fiber.Ctx) error {
	var p updatePayload
	if err := c.Bind().Body(&p); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Invalid JSON body")
	}
	update, err := p.validate()
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", err.Error())
	}

	lead := h.Store.UpdateLead(c.Params("id"), update)
	if lead == nil {
		return httpx.Error(c, fiber.StatusNotFound, "Not found", "Contact not found")
	}
	return c.JSON(fiber.Map{"success": true, "contact": lead})
}

// HandleUpdateRequest changes a plan request's status or notes.
func (h *Handlers) HandleUpdateRequest(c fiber.Ctx) error {
	var p updatePayload
	if err := c.Bind().Body(&p); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Invalid JSON body")
	}
	update, err := p.validate()
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", err.Error())
	}

	req := h.Store.UpdatePlanRequest(c.Params("id"), update)
	if req == nil {
		return httpx.Error(c, fiber.StatusNotFound, "Not found", "Request not found")
	}
	return c.JSON(fiber.Map{"success": true, "request": req})
}

// HandleStats returns the dashboard rollup for the last N days (default 7).
func (h *Handlers) HandleStats(c fiber.Ctx) error {
	days := httpx.QueryInt(c, "days", 7)
	return c.JSON(h.Store.GetDashboardStats(days))
}

// HandleExport returns every collection as one JSON document.
func (h *Handlers) HandleExport(c fiber.Ctx) error {
	c.Set("Content-Disposition", `attachment; filename="bossbooker-export.json"`)
	return c.JSON(h.Store.ExportAll())
}

// HandleExportCSV returns a single collection as a CSV download. The
// collection path segment carries a .csv extension.
func (h *Handlers) HandleExportCSV(c fiber.Ctx) error {
	name := strings.TrimSuffix(c.Params("collection"), ".csv")
	switch name {
	case "leads", "plan_requests", "events", "visitors":
	default:
		return httpx.Error(c, fiber.StatusNotFound, "Not found", "Unknown collection")
	}
	csv := h.Store.ExportCSV(name)

	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	return c.SendString(csv)
}

type clearPayload struct {
	Confirmed bool `json:"confirmed"`
}

// HandleClear wipes the analytics collections. Requires explicit
// confirmation in the body; clients are kept.
func (h *Handlers) HandleClear(c fiber.Ctx) error {
	var p clearPayload
	if err := c.Bind().Body(&p); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Invalid JSON body")
	}
	if !p.Confirmed {
		return httpx.Error(c, fiber.StatusBadRequest, "Confirmation required", "Pass confirmed: true to clear all data")
	}
	if !h.Store.ClearAll(true) {
		return httpx.Error(c, fiber.StatusInternalServerError, "Storage error", "Could not clear data")
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleGetPricing returns the stored pricing configuration.
func (h *Handlers) HandleGetPricing(c fiber.Ctx) error {
	return c.JSON(h.Pricing.Load())
}

// HandlePutPricing replaces the pricing configuration wholesale.
func (h *Handlers) HandlePutPricing(c fiber.Ctx) error {
	var cfg pricing.Config
	if err := c.Bind().Body(&cfg); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Invalid pricing config")
	}
	if !h.Pricing.Save(cfg) {
		return httpx.Error(c, fiber.StatusInternalServerError, "Storage error", "Could not save pricing config")
	}
	return c.JSON(fiber.Map{"success": true})
}
