package statusclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/ansine/internal/config"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		Enabled:         true,
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2,
	}
}

func TestClientMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metrics", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"uptime": {"secs": 3600},
			"cpu_since_boot": {"used": 120, "total": 200},
			"cpu_delta": {"used": 70, "total": 100},
			"memory": {"used": 400, "total": 1000},
			"swap": {"used": 0, "size": 200},
			"current_system": "nixos-system-atlas-24.05"
		}`))
	}))
	defer server.Close()

	client := New(server.URL)
	snapshot, err := client.Metrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(3600), snapshot.Uptime.Secs)
	assert.Equal(t, uint64(70), snapshot.CPUDelta.Used)
	assert.Equal(t, uint64(100), snapshot.CPUDelta.Total)
	require.NotNil(t, snapshot.CurrentSystem)
	assert.Equal(t, "nixos-system-atlas-24.05", *snapshot.CurrentSystem)
}

func TestClientServices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/services", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Jellyfin": {"description": "Media server", "route": "/jellyfin"}}`))
	}))
	defer server.Close()

	client := New(server.URL)
	services, err := client.Services(context.Background())
	require.NoError(t, err)

	require.Len(t, services, 1)
	assert.Equal(t, config.Service{Description: "Media server", Route: "/jellyfin"}, services["Jellyfin"])
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "temporarily hosed", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"uptime": {"secs": 1}}`))
	}))
	defer server.Close()

	client := New(server.URL)
	client.retry = fastRetry()

	snapshot, err := client.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snapshot.Uptime.Secs)
	assert.Equal(t, int64(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such endpoint", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL)
	client.retry = fastRetry()

	_, err := client.Metrics(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, "no such endpoint", statusErr.Body)
	assert.Equal(t, int64(1), calls.Load())
}

func TestClientCapsErrorBodyLength(t *testing.T) {
	long := strings.Repeat("x", 2048)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, long, http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL)
	client.retry = fastRetry()

	_, err := client.Metrics(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Len(t, statusErr.Body, 512)
	assert.Equal(t, strings.Repeat("x", 512), statusErr.Body)
}

func TestClientGivesUpAfterRetryBudget(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "still hosed", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL)
	client.retry = fastRetry()

	_, err := client.Metrics(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Equal(t, int64(4), calls.Load(), "initial attempt plus three retries")
}

func TestClientHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "hosed", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL)
	client.retry = RetryConfig{
		Enabled:         true,
		MaxRetries:      10,
		InitialInterval: time.Second,
		MaxInterval:     time.Second,
		Multiplier:      2,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Metrics(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
