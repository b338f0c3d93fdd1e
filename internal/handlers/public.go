package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/bossbooker/portal/internal/httpx"
	"github.com/bossbooker/portal/internal/pricing"
	"github.com/bossbooker/portal/internal/store"
)

// ContactPayload is the body of a contact form submission. Field names match
// what the marketing site posts.
type ContactPayload struct {
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Company   string            `json:"company"`
	Subject   string            `json:"subject"`
	Message   string            `json:"message"`
	Page      string            `json:"page"`
	Referrer  string            `json:"referrer"`
	UTM       map[string]string `json:"utm"`
	VisitorID string            `json:"visitorId"`
}

// RequestPayload is the body of a plan signup submission.
type RequestPayload struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Company         string          `json:"company"`
	PlanName        string          `json:"planName"`
	PlanDetails     planDetailsBody `json:"planDetails"`
	CompanySize     string          `json:"companySize"`
	Address         string          `json:"address"`
	AdditionalNotes string          `json:"additionalNotes"`
	Page            string          `json:"page"`
	Referrer        string          `json:"referrer"`
	VisitorID       string          `json:"visitorId"`
}

type planDetailsBody struct {
	Monthly       string         `json:"monthly"`
	Setup         string         `json:"setup"`
	FirstMonth    string         `json:"firstMonth"`
	Addons        []string       `json:"addons"`
	BusinessCards map[string]any `json:"businessCards"`
}

// HandleContact stores a contact form submission as a new lead.
func (h *Handlers) HandleContact(c fiber.Ctx) error {
	var p ContactPayload
	if err := c.Bind().Body(&p); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Invalid JSON body")
	}
	if p.Name == "" || p.Email == "" {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Name and email are required")
	}

	lead := h.Store.SaveLead(store.Lead{
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Company:    p.Company,
		Subject:    p.Subject,
		Message:    p.Message,
		SourcePage: p.Page,
		Referrer:   p.Referrer,
		UTM:        p.UTM,
		VisitorID:  p.VisitorID,
	})
	if lead == nil {
		return httpx.Error(c, fiber.StatusInternalServerError, "Storage error", "Could not save contact")
	}

	h.Hub.Notify("lead", lead.ID)
	h.Mirror.ForwardLead(*lead)

	return c.JSON(fiber.Map{"success": true, "id": lead.ID})
}

// HandleRequest stores a plan signup as a new plan request. The quote totals
// arrive preformatted from the pricing page and are stored verbatim.
func (h *Handlers) HandleRequest(c fiber.Ctx) error {
	var p RequestPayload
	if err := c.Bind().Body(&p); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Invalid JSON body")
	}
	if p.Name == "" || p.Email == "" {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Name and email are required")
	}

	req := h.Store.SavePlanRequest(store.PlanRequest{
		Name:     p.Name,
		Email:    p.Email,
		Phone:    p.Phone,
		Company:  p.Company,
		PlanName: p.PlanName,
		PlanDetails: store.PlanDetails{
			Monthly:       p.PlanDetails.Monthly,
			Setup:         p.PlanDetails.Setup,
			FirstMonth:    p.PlanDetails.FirstMonth,
			Addons:        p.PlanDetails.Addons,
			BusinessCards: p.PlanDetails.BusinessCards,
		},
		CompanySize:     p.CompanySize,
		Address:         p.Address,
		AdditionalNotes: p.AdditionalNotes,
		SourcePage:      p.Page,
		Referrer:        p.Referrer,
		VisitorID:       p.VisitorID,
	})
	if req == nil {
		return httpx.Error(c, fiber.StatusInternalServerError, "Storage error", "Could not save request")
	}

	h.Hub.Notify("plan_request", req.ID)
	h.Mirror.ForwardPlanRequest(*req)

	return c.JSON(fiber.Map{"success": true, "id": req.ID})
}

// HandlePublicPricing serves the pricing table for the plans calculator.
func (h *Handlers) HandlePublicPricing(c fiber.Ctx) error {
	return c.JSON(h.Pricing.Load())
}

// HandleQuote prices a plan selection server-side so the calculator shows the
// same totals the sales team sees.
func (h *Handlers) HandleQuote(c fiber.Ctx) error {
	var in pricing.QuoteInput
	if err := c.Bind().Body(&in); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Bad request", "Invalid JSON body")
	}

	quote := h.Pricing.ComputeQuote(in)
	monthly, onetime, firstMonth := quote.Strings()
	return c.JSON(fiber.Map{
		"quote": quote,
		"display": fiber.Map{
			"monthly":    monthly,
			"onetime":    onetime,
			"firstMonth": firstMonth,
		},
	})
}
