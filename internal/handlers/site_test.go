package handlers

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bossbooker/portal/internal/mirror"
	"github.com/bossbooker/portal/internal/store"
)

func siteReq(t *testing.T, target string, payload any) *http.Request {
	t.Helper()
	req := jsonReq(t, http.MethodPost, target, payload)
	req.Header.Set("X-API-Key", testAPIKey)
	return req
}

func TestSiteRoutesRequireAPIKey(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq(t, http.MethodPost, "/api/site/visitor", map[string]any{
		"visitorId": "v_1",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Missing API key", body["message"])
}

func TestSiteVisitorUpsertsProfile(t *testing.T) {
	app, ds := newTestApp(t)

	resp, err := app.Test(siteReq(t, "/api/site/visitor", map[string]any{
		"visitorId": "v_1",
		"sessionId": "s_1",
		"page":      "/index.html",
		"userAgent": "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	visitor := ds.GetVisitor("v_1")
	require.NotNil(t, visitor)
	assert.Equal(t, 1, visitor.SessionCount)
	assert.Equal(t, []string{"/index.html"}, visitor.PagesVisited)
	require.NotNil(t, visitor.DeviceHints)
	assert.Equal(t, "mobile", visitor.DeviceHints.Device)
}

func TestSiteVisitorRejectsMissingID(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(siteReq(t, "/api/site/visitor", map[string]any{
		"sessionId": "s_1",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSiteEventLogsAndReturnsID(t *testing.T) {
	app, ds := newTestApp(t)

	resp, err := app.Test(siteReq(t, "/api/site/event", map[string]any{
		"type":      "cta",
		"label":     "Book Now",
		"page":      "/pricing.html",
		"visitorId": "v_1",
		"data":      map[string]any{"href": "/book.html"},
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Regexp(t, `^evt_`, body["id"])

	events := ds.ListEvents(store.EventQuery{Type: "cta_click"})
	require.Len(t, events, 1)
	assert.Equal(t, "Book Now", events[0].Label)
	assert.Equal(t, "/book.html", events[0].Meta["href"])
}

func TestSiteLeadSharesContactFlow(t *testing.T) {
	app, ds := newTestApp(t)

	resp, err := app.Test(siteReq(t, "/api/site/lead", map[string]any{
		"name":  "Remote Jane",
		"email": "jane@remote.com",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	leads := ds.ListLeads(store.RecordQuery{})
	require.Len(t, leads, 1)
	assert.Equal(t, "Remote Jane", leads[0].Name)
}

// Forwarded records must survive the ingest binding on the receiving side,
// so replay what the mirror actually posts against a live app.
func TestMirroredRecordsSurviveSiteIngest(t *testing.T) {
	app, ds := newTestApp(t)

	var mu sync.Mutex
	captured := map[string][]byte{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		captured[r.URL.Path] = body
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := mirror.New(srv.URL, testAPIKey)
	require.NotNil(t, m)
	m.ForwardPlanRequest(store.PlanRequest{
		ID:              "req_1",
		Name:            "Jane",
		Email:           "jane@acme.com",
		PlanName:        "Growth",
		PlanDetails:     store.PlanDetails{Monthly: "$999", FirstMonth: "$1499"},
		CompanySize:     "11-50",
		AdditionalNotes: "call after 5",
		SourcePage:      "/pricing.html",
		VisitorID:       "v_1",
	})
	m.ForwardEvent(store.Event{
		ID:        "evt_1",
		Type:      "cta_click",
		Label:     "Book Now",
		Page:      "/pricing.html",
		VisitorID: "v_1",
		Meta:      map[string]any{"href": "/book.html"},
	})
	m.Wait()

	mu.Lock()
	reqBody := captured["/api/site/plan-request"]
	evtBody := captured["/api/site/event"]
	mu.Unlock()
	require.NotEmpty(t, reqBody)
	require.NotEmpty(t, evtBody)

	replay := httptest.NewRequest(http.MethodPost, "/api/site/plan-request", bytes.NewReader(reqBody))
	replay.Header.Set("Content-Type", "application/json")
	replay.Header.Set("X-API-Key", testAPIKey)
	resp, err := app.Test(replay)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	requests := ds.ListPlanRequests(store.RecordQuery{})
	require.Len(t, requests, 1)
	assert.Equal(t, "Growth", requests[0].PlanName)
	assert.Equal(t, "$999", requests[0].PlanDetails.Monthly)
	assert.Equal(t, "$1499", requests[0].PlanDetails.FirstMonth)
	assert.Equal(t, "11-50", requests[0].CompanySize)
	assert.Equal(t, "call after 5", requests[0].AdditionalNotes)
	assert.Equal(t, "/pricing.html", requests[0].SourcePage)
	assert.Equal(t, "v_1", requests[0].VisitorID)

	replay = httptest.NewRequest(http.MethodPost, "/api/site/event", bytes.NewReader(evtBody))
	replay.Header.Set("Content-Type", "application/json")
	replay.Header.Set("X-API-Key", testAPIKey)
	resp, err = app.Test(replay)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := ds.ListEvents(store.EventQuery{Type: "cta_click"})
	require.Len(t, events, 1)
	assert.Equal(t, "v_1", events[0].VisitorID)
	assert.Equal(t, "/book.html", events[0].Meta["href"])
}

func TestSitePlanRequestSharesRequestFlow(t *testing.T) {
	app, ds := newTestApp(t)

	resp, err := app.Test(siteReq(t, "/api/site/plan-request", map[string]any{
		"name":     "Remote Bob",
		"email":    "bob@remote.com",
		"planName": "Starter",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	requests := ds.ListPlanRequests(store.RecordQuery{})
	require.Len(t, requests, 1)
	assert.Equal(t, "Starter", requests[0].PlanName)
}
