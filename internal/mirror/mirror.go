// Package mirror forwards new submissions to an upstream portal API. The
// local store stays authoritative: forwarding is fire-and-forget and a failed
// push is logged and dropped.
package mirror

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bossbooker/portal/internal/logging"
	"github.com/bossbooker/portal/internal/store"
)

// Mirror pushes records to another portal instance. A nil Mirror is a no-op,
// so callers never need to check whether mirroring is configured.
type Mirror struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *slog.Logger
	wg      sync.WaitGroup
}

// New returns a Mirror for the given upstream, or nil when baseURL is empty.
func New(baseURL, apiKey string) *Mirror {
	if baseURL == "" {
		return nil
	}
	return &Mirror{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logging.With("component", "mirror"),
	}
}

// The wire shapes match the ingest API the upstream exposes, not the storage
// shapes. The upstream binds camelCase submission bodies, so posting a stored
// record as-is would arrive with its plan, attribution, and metadata blank.
type leadBody struct {
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

type planDetailsBody struct {
	Monthly       string         `json:"monthly"`
	Setup         string         `json:"setup"`
	FirstMonth    string         `json:"firstMonth"`
	Addons        []string       `json:"addons"`
	BusinessCards map[string]any `json:"businessCards"`
}

type requestBody struct {
	leadBody
	PlanName        string          `json:"planName"`
	PlanDetails     planDetailsBody `json:"planDetails"`
	CompanySize     string          `json:"companySize"`
	Address         string          `json:"address"`
	AdditionalNotes string          `json:"additionalNotes"`
}

type eventBody struct {
	Type      string         `json:"type"`
	Label     string         `json:"label"`
	Page      string         `json:"page"`
	VisitorID string         `json:"visitorId"`
	SessionID string         `json:"sessionId"`
	Timestamp int64          `json:"timestamp"`
	Meta      map[string]any `json:"data"`
}

// ForwardLead pushes a lead to the upstream in the background.
func (m *Mirror) ForwardLead(lead store.Lead) {
	m.post("/api/site/lead", leadBody{
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   lead.Company,
		Subject:   lead.Subject,
		Message:   lead.Message,
		Page:      lead.SourcePage,
		Referrer:  lead.Referrer,
		UTM:       lead.UTM,
		VisitorID: lead.VisitorID,
	})
}

// ForwardPlanRequest pushes a plan request to the upstream in the background.
func (m *Mirror) ForwardPlanRequest(req store.PlanRequest) {
	m.post("/api/site/plan-request", requestBody{
		leadBody: leadBody{
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			Company:   req.Company,
			Page:      req.SourcePage,
			Referrer:  req.Referrer,
			VisitorID: req.VisitorID,
		},
		PlanName: req.PlanName,
		PlanDetails: planDetailsBody{
			Monthly:       req.PlanDetails.Monthly,
			Setup:         req.PlanDetails.Setup,
			FirstMonth:    req.PlanDetails.FirstMonth,
			Addons:        req.PlanDetails.Addons,
			BusinessCards: req.PlanDetails.BusinessCards,
		},
		CompanySize:     req.CompanySize,
		Address:         req.Address,
		AdditionalNotes: req.AdditionalNotes,
	})
}

// ForwardEvent pushes an analytics event to the upstream in the background.
func (m *Mirror) ForwardEvent(event store.Event) {
	m.post("/api/site/event", eventBody{
		Type:      event.Type,
		Label:     event.Label,
		Page:      event.Page,
		VisitorID: event.VisitorID,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		Meta:      event.Meta,
	})
}

// Wait blocks until all in-flight pushes have finished. Used on shutdown and
// in tests.
func (m *Mirror) Wait() {
	if m == nil {
		return
	}
	m.wg.Wait()
}

func (m *Mirror) post(path string, payload any) {
	if m == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		m.log.Warn("mirror marshal failed", "path", path, "error", err)
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		req, err := http.NewRequest(http.MethodPost, m.baseURL+path, bytes.NewReader(body))
		if err != nil {
			m.log.Warn("mirror request failed", "path", path, "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		if m.apiKey != "" {
			req.Header.Set("X-API-Key", m.apiKey)
		}

		resp, err := m.client.Do(req)
		if err != nil {
			m.log.Warn("mirror push failed", "path", path, "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			m.log.Warn("mirror push rejected", "path", path, "status", resp.StatusCode)
		}
	}()
}
