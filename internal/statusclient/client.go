// Package statusclient provides an HTTP client for the dashboard API, used
// by the terminal status view.
package statusclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/creamcroissant/ansine/internal/config"
	"github.com/creamcroissant/ansine/internal/metrics"
)

// StatusError carries a non-2xx response code.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client talks to a running dashboard instance.
type Client struct {
	baseURL string
	client  *http.Client
	retry   RetryConfig
}

// New creates a client for the dashboard at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		retry:   DefaultRetryConfig(),
	}
}

// Metrics fetches the current snapshot.
func (c *Client) Metrics(ctx context.Context) (*metrics.Snapshot, error) {
	var snapshot metrics.Snapshot
	if err := c.get(ctx, "/metrics", &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Services fetches the configured service links.
func (c *Client) Services(ctx context.Context) (config.ServiceMap, error) {
	var services config.ServiceMap
	if err := c.get(ctx, "/api/services", &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	return doWithRetry(ctx, c.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}

		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}
