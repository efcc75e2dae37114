package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/ansine/internal/config"
	"github.com/creamcroissant/ansine/internal/metrics"
)

func newTestRouter(t *testing.T, store *metrics.Store, services config.ServiceMap) http.Handler {
	t.Helper()
	router, err := NewRouter(Options{
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:           store,
		Services:        services,
		RefreshInterval: 10,
	})
	require.NoError(t, err)
	return router
}

func get(t *testing.T, router http.Handler, path string) (*http.Response, []byte) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	resp := rec.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestRouterRequiresStore(t *testing.T) {
	_, err := NewRouter(Options{})
	assert.Error(t, err)
}

func TestMetricsEndpointServesZeroSnapshotBeforeFirstPublish(t *testing.T) {
	router := newTestRouter(t, metrics.NewStore(), nil)

	resp, body := get(t, router, "/metrics")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snapshot metrics.Snapshot
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Equal(t, metrics.Snapshot{}, snapshot)
}

func TestMetricsEndpointServesPublishedSnapshot(t *testing.T) {
	store := metrics.NewStore()
	system := "nixos-system-atlas-24.05"
	store.Publish(&metrics.Snapshot{
		Uptime:        metrics.Uptime{Secs: 3600},
		CPUSinceBoot:  metrics.Counter{Used: 120, Total: 200},
		CPUDelta:      metrics.Counter{Used: 70, Total: 100},
		Memory:        metrics.Memory{Used: 400, Total: 1000},
		Swap:          metrics.Swap{Used: 0, Size: 200},
		CurrentSystem: &system,
	})
	router := newTestRouter(t, store, nil)

	_, body := get(t, router, "/metrics")

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.JSONEq(t, `{"secs":3600}`, string(payload["uptime"]))
	assert.JSONEq(t, `{"used":70,"total":100}`, string(payload["cpu_delta"]))
	assert.JSONEq(t, `{"used":400,"total":1000}`, string(payload["memory"]))
	assert.JSONEq(t, `{"used":0,"size":200}`, string(payload["swap"]))
	assert.JSONEq(t, `"nixos-system-atlas-24.05"`, string(payload["current_system"]))
}

func TestMetricsEndpointIsStableWithinRefreshWindow(t *testing.T) {
	store := metrics.NewStore()
	store.Publish(&metrics.Snapshot{Uptime: metrics.Uptime{Secs: 42}})
	router := newTestRouter(t, store, nil)

	_, first := get(t, router, "/metrics")
	_, second := get(t, router, "/metrics")

	assert.Equal(t, first, second, "same snapshot must serialize byte-identically")
}

func TestServicesEndpointRoundTrip(t *testing.T) {
	services := config.ServiceMap{
		"Jellyfin": {Description: "Media server", Route: "/jellyfin"},
		"Gitea":    {Description: "Git hosting", Route: "/gitea"},
	}
	router := newTestRouter(t, metrics.NewStore(), services)

	resp, body := get(t, router, "/api/services")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got config.ServiceMap
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, services, got)
}

func TestIndexPageListsServices(t *testing.T) {
	services := config.ServiceMap{
		"Jellyfin": {Description: "Media server", Route: "/jellyfin"},
	}
	router := newTestRouter(t, metrics.NewStore(), services)

	resp, body := get(t, router, "/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "Jellyfin")
	assert.Contains(t, string(body), "/jellyfin")
	assert.Contains(t, string(body), `data-refresh-interval="10"`)
}

func TestIndexPageSanitizesDescriptions(t *testing.T) {
	services := config.ServiceMap{
		"Evil": {Description: `<script>alert(1)</script><b>bold</b>`, Route: "/evil"},
	}
	router := newTestRouter(t, metrics.NewStore(), services)

	_, body := get(t, router, "/")

	assert.NotContains(t, string(body), "<script>")
	assert.Contains(t, string(body), "<b>bold</b>")
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, metrics.NewStore(), nil)

	resp, body := get(t, router, "/healthz")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestEmbeddedAssetsServed(t *testing.T) {
	router := newTestRouter(t, metrics.NewStore(), nil)

	resp, body := get(t, router, "/assets/app.js")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "refreshSeconds")
}
