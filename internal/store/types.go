package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage keys for each collection blob.
const (
	KeyVisitors     = "bb_visitors"
	KeyEvents       = "bb_events"
	KeyLeads        = "bb_leads"
	KeyPlanRequests = "bb_plan_requests"
	KeyClients      = "bb_clients"
)

// MaxEvents caps the event log. Oldest entries are evicted first.
const MaxEvents = 5000

// Lead and plan request statuses.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusBooked    = "booked"
	StatusArchived  = "archived"

	// StatusAccepted marks a record converted to a client. Set only by the
	// accept flow, never by the status allow-list.
	StatusAccepted = "accepted"
)

// ValidStatus reports whether s is a recognized workflow status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusBooked, StatusArchived:
		return true
	}
	return false
}

// DeviceHints describes the visitor's browser environment as parsed client-side.
type DeviceHints struct {
	Browser  string `json:"browser,omitempty"`
	OS       string `json:"os,omitempty"`
	Device   string `json:"device,omitempty"`
	Screen   string `json:"screen,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Geo holds optional server-side IP enrichment.
type Geo struct {
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// Visitor is a long-lived browser profile keyed by visitor id.
type Visitor struct {
	ID           string            `json:"id"`
	FirstSeen    int64             `json:"first_seen"`
	LastSeen     int64             `json:"last_seen"`
	SessionCount int               `json:"session_count"`
	PageViews    int               `json:"page_views"`
	PagesVisited []string          `json:"pages_visited"`
	Referrer     string            `json:"referrer,omitempty"`
	UserAgent    string            `json:"user_agent,omitempty"`
	UTM          map[string]string `json:"utm,omitempty"`
	DeviceHints  *DeviceHints      `json:"device_hints,omitempty"`
	Geo          *Geo              `json:"geo,omitempty"`
	UpdatedAt    int64             `json:"updated_at,omitempty"`
}

// Event is a single analytics event. Timestamps are unix milliseconds.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Label     string         `json:"label"`
	Page      string         `json:"page"`
	VisitorID string         `json:"visitor_id"`
	SessionID string         `json:"session_id"`
	Timestamp int64          `json:"timestamp"`
	Meta      map[string]any `json:"meta"`
}

// Lead is a contact form submission.
type Lead struct {
	ID         string            `json:"id"`
	CreatedAt  int64             `json:"created_at"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Company    string            `json:"company"`
	Subject    string            `json:"subject"`
	Message    string            `json:"message"`
	SourcePage string            `json:"source_page"`
	Referrer   string            `json:"referrer"`
	UTM        map[string]string `json:"utm"`
	VisitorID  string            `json:"visitor_id"`
	Status     string            `json:"status"`
	Notes      string            `json:"notes"`
	UpdatedAt  int64             `json:"updated_at,omitempty"`
}

// PlanDetails captures the quote snapshot attached to a plan request.
// Totals arrive preformatted from the pricing page ("$450" or
// "Contact for pricing") and are stored verbatim.
type PlanDetails struct {
	Monthly       string         `json:"monthly"`
	Setup         string         `json:"setup"`
	FirstMonth    string         `json:"first_month"`
	Addons        []string       `json:"addons"`
	BusinessCards map[string]any `json:"business_cards"`
}

// PlanRequest is a service plan signup request.
type PlanRequest struct {
	ID              string      `json:"id"`
	CreatedAt       int64       `json:"created_at"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	Company         string      `json:"company"`
	PlanName        string      `json:"plan_name"`
	PlanDetails     PlanDetails `json:"plan_details"`
	CompanySize     string      `json:"company_size"`
	Address         string      `json:"address"`
	AdditionalNotes string      `json:"additional_notes"`
	SourcePage      string      `json:"source_page"`
	Referrer        string      `json:"referrer"`
	VisitorID       string      `json:"visitor_id"`
	Status          string      `json:"status"`
	Notes           string      `json:"notes"`
	UpdatedAt       int64       `json:"updated_at,omitempty"`
}

// Client is an accepted lead or plan request, promoted to a customer record.
type Client struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Company            string `json:"company"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	Plan               string `json:"plan"`
	MonthlyValue       string `json:"monthlyValue,omitempty"`
	AcceptedDate       int64  `json:"acceptedDate"`
	Source             string `json:"source"`
	OriginalSubmission int64  `json:"originalSubmission,omitempty"`
}

// GenerateID builds a sortable record id: prefix, millisecond timestamp,
// then a short random suffix.
func GenerateID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
}
