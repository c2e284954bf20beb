// Package iplocate resolves an IP address to an approximate position using an
// ip-api.com-compatible endpoint. It backs the "auto-detect location" path
// when no GPS fix is available.
package iplocate

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Position is an approximate location for an IP address.
type Position struct {
	Lat     float64
	Lon     float64
	City    string
	Country string
	Matched bool
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the lookup endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client looks up approximate positions by IP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an IP locator client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    "http://ip-api.com/json",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

// Locate resolves the caller's own public IP.
func (c *Client) Locate(ctx context.Context) (*Position, error) {
	return c.lookup(ctx, c.baseURL+"/")
}

// LocateIP resolves a specific IP address.
func (c *Client) LocateIP(ctx context.Context, ip string) (*Position, error) {
	return c.lookup(ctx, c.baseURL+"/"+ip)
}

func (c *Client) lookup(ctx context.Context, url string) (*Position, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "iplocate: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "iplocate: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("iplocate: unexpected status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrap(err, "iplocate: decode response")
	}

	// Lookup failures (private ranges, quota) come back with status "fail".
	if body.Status != "success" {
		return &Position{Matched: false}, nil
	}

	return &Position{
		Lat:     body.Lat,
		Lon:     body.Lon,
		City:    body.City,
		Country: body.Country,
		Matched: true,
	}, nil
}
