// Package caddy talks to the Caddy admin API and renders the routing
// configuration the installer pushes to it.
package caddy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nixopus/installer/internal/log"
	"github.com/nixopus/installer/pkg/version"
)

// StatusError is returned when the admin API answers with a non-200 status
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: caddy returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: caddy returned status %d: %s", e.Op, e.StatusCode, body)
}

// Client is a Caddy admin API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the admin endpoint at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the admin endpoint
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Config fetches the running configuration. A nil document with a nil error
// means Caddy has no configuration loaded.
func (c *Client) Config(ctx context.Context) (Document, error) {
	// Caddy serves the same tree at /config and /config/; the slash form is its documented one.
	body, err := c.do(ctx, http.MethodGet, "/config/", nil, "fetch config")
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return ParseDocument(body)
}

// Load replaces the whole running configuration
func (c *Client) Load(ctx context.Context, doc Document) error {
	_, err := c.do(ctx, http.MethodPost, "/load", doc, "load config")
	return err
}

// AppendRoute appends one route to the named server's route list
func (c *Client) AppendRoute(ctx context.Context, server string, route any) error {
	path := fmt.Sprintf("/config/apps/http/servers/%s/routes/...", server)
	op := fmt.Sprintf("append route %s", RouteLabel(route))
	_, err := c.do(ctx, http.MethodPost, path, []any{route}, op)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any, op string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", version.UserAgent())

	log.Debug("Caddy admin request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to reach caddy at %s: %w", op, c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response body: %w", op, err)
	}

	log.Debug("Caddy admin response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
