// Package geocode resolves street addresses to coordinates through the
// OpenStreetMap Nominatim search API. Lookups are retried with
// exponential backoff since the upstream service throttles aggressively.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	e "github.com/euvalley/directory/internal/directory/errors"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Result is a resolved location.
type Result struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

// Client queries a Nominatim-compatible geocoding endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	maxRetries uint64
}

// NewClient constructs a Client against the public Nominatim endpoint.
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:     logger.Named("geocode"),
		maxRetries: 3,
	}
}

// NewClientWithBaseURL constructs a Client against a custom endpoint.
// Tests point this at an httptest server.
func NewClientWithBaseURL(baseURL string, logger *zap.Logger) *Client {
	c := NewClient(logger)
	c.baseURL = baseURL
	return c
}

// Search resolves the first match for "street, city, country". It
// returns ErrNotFound when the service has no match for the address.
func (c *Client) Search(ctx context.Context, street, city, country string) (*Result, error) {
	parts := make([]string, 0, 3)
	for _, p := range []string{street, city, country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty address", e.ErrInvalidInput)
	}
	query := strings.Join(parts, ", ")

	var result *Result
	operation := func() error {
		var err error
		result, err = c.search(ctx, query)
		if err != nil {
			// Not-found is definitive, don't retry it.
			if ctx.Err() != nil || isPermanent(err) {
				return backoff.Permanent(err)
			}
			c.logger.Warn("geocode attempt failed, retrying", zap.String("query", query), zap.Error(err))
			return err
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) search(ctx context.Context, query string) (*Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "eu-valley-directory")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	var payload []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed geocoding response: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: no match for address", e.ErrNotFound)
	}

	lat, err := strconv.ParseFloat(payload[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed latitude %q: %w", payload[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(payload[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed longitude %q: %w", payload[0].Lon, err)
	}

	return &Result{Latitude: lat, Longitude: lon, DisplayName: payload[0].DisplayName}, nil
}

func isPermanent(err error) bool {
	return errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrInvalidInput)
}
