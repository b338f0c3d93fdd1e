// Package tracker turns raw site beacons into visitor profiles and analytics
// events. It owns the server-side half of the tracking pipeline: user agent
// parsing, session accounting, meta sanitizing, and optional geo enrichment.
package tracker

import (
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bossbooker/portal/internal/logging"
	"github.com/bossbooker/portal/internal/store"
)

// MaxPagesVisited caps the per-visitor page history. The most recent pages win.
const MaxPagesVisited = 50

// GeoResolver resolves an IP address to coarse location data. A nil result
// means lookup disabled or failed.
type GeoResolver interface {
	Lookup(ip string) *store.Geo
}

// VisitorBeacon is the payload of a visitor ping from the tracked site.
type VisitorBeacon struct {
	VisitorID string            `json:"visitorId"`
	SessionID string            `json:"sessionId"`
	Page      string            `json:"page"`
	Referrer  string            `json:"referrer"`
	UserAgent string            `json:"userAgent"`
	Device    string            `json:"device"`
	Screen    string            `json:"screen"`
	Timezone  string            `json:"timezone"`
	UTM       map[string]string `json:"utm"`
}

// EventBeacon is the payload of an event ping from the tracked site.
type EventBeacon struct {
	Type      string         `json:"type"`
	Label     string         `json:"label"`
	Page      string         `json:"page"`
	VisitorID string         `json:"visitorId"`
	SessionID string         `json:"sessionId"`
	Timestamp int64          `json:"timestamp"`
	Meta      map[string]any `json:"data"`
}

// Tracker processes beacons against the datastore.
type Tracker struct {
	store *store.DataStore
	geo   GeoResolver
	log   *slog.Logger

	// lastSession remembers each visitor's most recent session id so a
	// changed id counts as a new session.
	mu          sync.Mutex
	lastSession map[string]string

	now func() int64
}

// New returns a Tracker. geo may be nil to disable enrichment.
func New(ds *store.DataStore, geo GeoResolver) *Tracker {
	return &Tracker{
		store:       ds,
		geo:         geo,
		log:         logging.With("component", "tracker"),
		lastSession: make(map[string]string),
		now:         func() int64 { return time.Now().UnixMilli() },
	}
}

// TrackVisitor upserts the visitor profile for a beacon and logs a page_view
// event. New sessions bump the session counter and emit a session_start event.
func (t *Tracker) TrackVisitor(b VisitorBeacon, remoteIP string) bool {
	if b.VisitorID == "" {
		t.log.Warn("visitor beacon without id")
		return false
	}

	now := t.now()
	newSession := t.noteSession(b.VisitorID, b.SessionID)

	existing := t.store.GetVisitor(b.VisitorID)

	hints := ParseUserAgent(b.UserAgent)
	if b.Device != "" {
		hints.Device = b.Device
	}
	hints.Screen = b.Screen
	hints.Timezone = b.Timezone

	utm := b.UTM
	if len(utm) == 0 {
		utm = ExtractUTM(b.Page)
	}

	visitor := store.Visitor{
		ID:          b.VisitorID,
		FirstSeen:   now,
		LastSeen:    now,
		PageViews:   1,
		Referrer:    b.Referrer,
		UserAgent:   b.UserAgent,
		UTM:         utm,
		DeviceHints: &hints,
	}
	if existing != nil {
		visitor.FirstSeen = existing.FirstSeen
		visitor.SessionCount = existing.SessionCount
		visitor.PageViews = existing.PageViews + 1
		visitor.PagesVisited = existing.PagesVisited
		if existing.Referrer != "" {
			visitor.Referrer = existing.Referrer
		}
		if len(existing.UTM) > 0 {
			visitor.UTM = existing.UTM
		}
		visitor.Geo = existing.Geo
	}
	if newSession {
		visitor.SessionCount++
	}

	if b.Page != "" && !slices.Contains(visitor.PagesVisited, b.Page) {
		visitor.PagesVisited = append(visitor.PagesVisited, b.Page)
		if len(visitor.PagesVisited) > MaxPagesVisited {
			visitor.PagesVisited = visitor.PagesVisited[len(visitor.PagesVisited)-MaxPagesVisited:]
		}
	}

	if t.geo != nil && visitor.Geo == nil && remoteIP != "" {
		visitor.Geo = t.geo.Lookup(remoteIP)
	}

	if !t.store.SaveVisitor(visitor) {
		return false
	}

	if b.Page != "" {
		t.store.LogEvent(store.Event{
			Type:      "page_view",
			Page:      b.Page,
			VisitorID: b.VisitorID,
			SessionID: b.SessionID,
			Timestamp: now,
		})
	}

	if newSession {
		t.store.LogEvent(store.Event{
			Type:      "session_start",
			Label:     "New Session",
			Page:      b.Page,
			VisitorID: b.VisitorID,
			SessionID: b.SessionID,
			Timestamp: now,
			Meta:      map[string]any{"referrer": b.Referrer},
		})
	}
	return true
}

// TrackEvent logs an event beacon and refreshes the visitor's last_seen.
// An empty type is recorded as "custom". Returns the stored event, or nil
// when the write fails.
func (t *Tracker) TrackEvent(b EventBeacon) *store.Event {
	eventType := NormalizeClickType(b.Type)
	if eventType == "" {
		eventType = "custom"
	}

	event := store.Event{
		ID:        store.GenerateID("evt"),
		Type:      eventType,
		Label:     b.Label,
		Page:      b.Page,
		VisitorID: b.VisitorID,
		SessionID: b.SessionID,
		Timestamp: b.Timestamp,
		Meta:      SanitizeMeta(b.Meta),
	}
	if event.Timestamp == 0 {
		event.Timestamp = t.now()
	}
	if !t.store.LogEvent(event) {
		return nil
	}

	if b.VisitorID != "" {
		if visitor := t.store.GetVisitor(b.VisitorID); visitor != nil {
			visitor.LastSeen = t.now()
			t.store.SaveVisitor(*visitor)
		}
	}
	return &event
}

func (t *Tracker) noteSession(visitorID, sessionID string) bool {
	if sessionID == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastSession[visitorID] == sessionID {
		return false
	}
	t.lastSession[visitorID] = sessionID
	return true
}

// NormalizeClickType maps the short click kinds emitted by tracked markup to
// their stored event types. Unknown types pass through unchanged.
func NormalizeClickType(t string) string {
	switch t {
	case "nav":
		return "nav_click"
	case "cta":
		return "cta_click"
	case "phone":
		return "phone_click"
	case "email":
		return "email_click"
	}
	return t
}

// ExtractUTM pulls utm_* parameters out of a page URL's query string.
// Returns nil when the URL has none.
func ExtractUTM(page string) map[string]string {
	u, err := url.Parse(page)
	if err != nil {
		return nil
	}
	var utm map[string]string
	for key, values := range u.Query() {
		if !strings.HasPrefix(key, "utm_") || len(values) == 0 {
			continue
		}
		if utm == nil {
			utm = map[string]string{}
		}
		utm[key] = values[0]
	}
	return utm
}

// SanitizeMeta keeps only scalar values so arbitrary client payloads cannot
// smuggle nested documents into the event log.
func SanitizeMeta(meta map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range meta {
		switch v.(type) {
		case string, bool, float64, int, int64, nil:
			out[k] = v
		}
	}
	return out
}
