package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/bossbooker/portal/internal/auth"
	"github.com/bossbooker/portal/internal/kv"
	"github.com/bossbooker/portal/internal/pricing"
	"github.com/bossbooker/portal/internal/realtime"
	"github.com/bossbooker/portal/internal/store"
	"github.com/bossbooker/portal/internal/tracker"
)

const (
	testPassword = "opensesame"
	testAPIKey   = "bb_sk_testkey"
)

func newTestApp(t *testing.T) (*fiber.App, *store.DataStore) {
	t.Helper()

	backend := kv.NewMemory()
	ds := store.New(backend)
	h := &Handlers{
		Store:   ds,
		Pricing: pricing.NewService(backend),
		Tracker: tracker.New(ds, nil),
		Guard:   auth.NewGuard(backend, testPassword),
		Hub:     realtime.NewHub(),
		APIKeys: []string{testAPIKey},
		Version: "0.0.0-test",
	}

	app := fiber.New()
	h.Register(app)
	return app, ds
}

func jsonReq(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func adminReq(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	req := jsonReq(t, method, target, payload)
	req.Header.Set("Authorization", "Bearer "+testPassword)
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	return body
}

func decodeInto(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	_ = resp.Body.Close()
}

func copyBody(dst io.Writer, resp *http.Response) (int64, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.Copy(dst, resp.Body)
}
