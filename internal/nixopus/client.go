// Package nixopus is a small client for the deployed Nixopus API. The
// installer only needs the health check and the admin registration call.
package nixopus

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nixopus/installer/internal/config"
	"github.com/nixopus/installer/internal/log"
	"github.com/nixopus/installer/pkg/version"
)

const (
	healthPath   = "/api/v1/health"
	registerPath = "/api/v1/auth/register"

	adminExistsMarker = "admin already registered"
)

var (
	// ErrUnreachable wraps transport failures talking to the API
	ErrUnreachable = errors.New("failed to connect to API")
	// ErrInvalidResponse wraps responses that could not be decoded
	ErrInvalidResponse = errors.New("invalid response from API")
	// ErrAdminExists reports that an admin account was registered before
	ErrAdminExists = errors.New("admin already registered")
)

// APIError is a non-success answer from the registration endpoint
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// Client represents an HTTP client for the Nixopus API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API listening on localhost:port.
// Certificate verification is disabled: the API serves a self-signed
// certificate until the proxy fronts it.
func NewClient(port int, timeout time.Duration) *Client {
	return NewClientWithBaseURL(fmt.Sprintf("http://localhost:%d", port), timeout)
}

// NewClientWithBaseURL creates a client for an explicit base URL
func NewClientWithBaseURL(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
		},
	}
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Healthy performs one health check. Only a 200 counts; transport errors
// and any other status report false.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		log.Warn("Failed to create health request", "error", err)
		return false
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("Health check failed", "url", req.URL.String(), "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	log.Debug("Health check response", "url", req.URL.String(), "status", resp.StatusCode)
	return resp.StatusCode == http.StatusOK
}

// RegisterRequest represents the request body for admin registration
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Type         string `json:"type"`
	Username     string `json:"username"`
	Organization string `json:"organization"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// RegisterAdmin creates the initial admin account. It returns ErrAdminExists
// when the API reports that an admin was already registered.
func (c *Client) RegisterAdmin(ctx context.Context, admin config.Admin) error {
	reqBody := RegisterRequest{
		Email:        admin.Email,
		Password:     admin.Password,
		Type:         "admin",
		Username:     admin.Username(),
		Organization: "",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+registerPath, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	log.Debug("Registering admin", "url", req.URL.String(), "username", reqBody.Username)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrUnreachable, err)
	}

	log.Debug("Register response", "status", resp.StatusCode)

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(body), adminExistsMarker) {
		return ErrAdminExists
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return fmt.Errorf("%w: status %d: %v: %s", ErrInvalidResponse, resp.StatusCode, err, strings.TrimSpace(string(body)))
	}
	message := errResp.Message
	if message == "" {
		message = "Unknown error"
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
