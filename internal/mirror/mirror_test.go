package mirror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bossbooker/portal/internal/store"
)

type capture struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []map[string]any
}

func (c *capture) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		c.mu.Lock()
		c.requests = append(c.requests, r)
		c.bodies = append(c.bodies, body)
		c.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

func TestNewReturnsNilWithoutURL(t *testing.T) {
	assert.Nil(t, New("", "bb_sk_key"))
}

func TestNilMirrorIsSafe(t *testing.T) {
	var m *Mirror
	m.ForwardLead(store.Lead{})
	m.ForwardPlanRequest(store.PlanRequest{})
	m.ForwardEvent(store.Event{})
	m.Wait()
}

func TestForwardLead(t *testing.T) {
	cap := &capture{}
	srv := httptest.NewServer(cap.handler())
	defer srv.Close()

	m := New(srv.URL, "bb_sk_test")
	require.NotNil(t, m)

	m.ForwardLead(store.Lead{ID: "lead_1", Name: "Jane"})
	m.Wait()

	cap.mu.Lock()
	defer cap.mu.Unlock()
	require.Len(t, cap.requests, 1)
	assert.Equal(t, "/api/site/lead", cap.requests[0].URL.Path)
	assert.Equal(t, "bb_sk_test", cap.requests[0].Header.Get("X-API-Key"))
	assert.Equal(t, "Jane", cap.bodies[0]["name"])
}

func TestForwardPlanRequestUsesIngestFieldNames(t *testing.T) {
	cap := &capture{}
	srv := httptest.NewServer(cap.handler())
	defer srv.Close()

	m := New(srv.URL, "bb_sk_test")
	m.ForwardPlanRequest(store.PlanRequest{
		ID:              "req_1",
		Name:            "Jane",
		PlanName:        "Growth",
		PlanDetails:     store.PlanDetails{Monthly: "$999", FirstMonth: "$1499"},
		CompanySize:     "11-50",
		AdditionalNotes: "call after 5",
		SourcePage:      "/pricing.html",
		VisitorID:       "v_1",
	})
	m.Wait()

	cap.mu.Lock()
	defer cap.mu.Unlock()
	require.Len(t, cap.bodies, 1)
	body := cap.bodies[0]
	assert.Equal(t, "Growth", body["planName"])
	assert.Equal(t, "11-50", body["companySize"])
	assert.Equal(t, "call after 5", body["additionalNotes"])
	assert.Equal(t, "/pricing.html", body["page"])
	assert.Equal(t, "v_1", body["visitorId"])
	details, ok := body["planDetails"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "$999", details["monthly"])
	assert.Equal(t, "$1499", details["firstMonth"])
	// Storage-only fields stay local.
	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "status")
}

func TestForwardEventUsesIngestFieldNames(t *testing.T) {
	cap := &capture{}
	srv := httptest.NewServer(cap.handler())
	defer srv.Close()

	m := New(srv.URL, "bb_sk_test")
	m.ForwardEvent(store.Event{
		ID:        "evt_1",
		Type:      "cta_click",
		VisitorID: "v_1",
		SessionID: "sess_1",
		Meta:      map[string]any{"href": "/book.html"},
	})
	m.Wait()

	cap.mu.Lock()
	defer cap.mu.Unlock()
	require.Len(t, cap.bodies, 1)
	body := cap.bodies[0]
	assert.Equal(t, "v_1", body["visitorId"])
	assert.Equal(t, "sess_1", body["sessionId"])
	meta, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/book.html", meta["href"])
}

func TestForwardEventAndPlanRequestPaths(t *testing.T) {
	cap := &capture{}
	srv := httptest.NewServer(cap.handler())
	defer srv.Close()

	m := New(srv.URL, "")
	m.ForwardEvent(store.Event{ID: "evt_1", Type: "page_view"})
	m.ForwardPlanRequest(store.PlanRequest{ID: "req_1"})
	m.Wait()

	cap.mu.Lock()
	defer cap.mu.Unlock()
	require.Len(t, cap.requests, 2)
	paths := []string{cap.requests[0].URL.Path, cap.requests[1].URL.Path}
	assert.ElementsMatch(t, []string{"/api/site/event", "/api/site/plan-request"}, paths)
	// No key configured, no header sent.
	assert.Empty(t, cap.requests[0].Header.Get("X-API-Key"))
}

func TestForwardSurvivesDeadUpstream(t *testing.T) {
	m := New("http://127.0.0.1:1", "")
	require.NotNil(t, m)

	// Must not panic or block forever.
	m.ForwardLead(store.Lead{ID: "lead_1"})
	m.Wait()
}
