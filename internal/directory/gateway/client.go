// Package gateway provides the HTTP client for the snapshot gateway.
// The gateway stores the full company snapshot as a single document;
// reads and writes always move the whole thing.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	e "github.com/euvalley/directory/internal/directory/errors"
	"github.com/euvalley/directory/internal/directory/models"
)

// Client talks to the snapshot gateway over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient constructs a Client for the gateway at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetToken sets the bearer token attached to snapshot writes.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges the shared admin password for a session token.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/admin/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", e.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed: status %d", resp.StatusCode)
	}

	var payload struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("malformed login response: %w", err)
	}
	return payload.Token, nil
}

// Fetch reads the full snapshot. A gateway with no stored snapshot
// returns an empty default, not an error.
func (c *Client) Fetch(ctx context.Context) (*models.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/companies", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway returned status %d", e.ErrUnavailable, resp.StatusCode)
	}

	var snapshot models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("%w: malformed snapshot: %v", e.ErrUnavailable, err)
	}
	return &snapshot, nil
}

// Store overwrites the gateway snapshot. Whatever was stored before is
// replaced wholesale; the gateway stamps lastUpdated itself.
func (c *Client) Store(ctx context.Context, snapshot *models.Snapshot) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/companies", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", e.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gateway returned status %d", e.ErrUnavailable, resp.StatusCode)
	}
	return nil
}
