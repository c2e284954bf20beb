// Package geocode resolves free-text addresses to coordinates via a
// Nominatim-compatible endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Client geocodes free-text addresses.
type Client interface {
	// Geocode resolves a single address. An address the provider cannot
	// place is not an error: Matched is false.
	Geocode(ctx context.Context, address string) (*Result, error)

	// BatchGeocode resolves multiple addresses with bounded concurrency.
	BatchGeocode(ctx context.Context, addresses []string) ([]Result, error)
}

// Result holds the geocoding output for an address.
type Result struct {
	Lat         float64
	Lon         float64
	DisplayName string
	Matched     bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithBaseURL overrides the Nominatim endpoint.
func WithBaseURL(base string) Option {
	return func(g *geocoder) {
		g.baseURL = base
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header. Nominatim's usage policy requires
// an identifying agent.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		g.userAgent = ua
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithBatchConcurrency caps parallel calls inside BatchGeocode.
func WithBatchConcurrency(n int) Option {
	return func(g *geocoder) {
		if n > 0 {
			g.batchConcurrency = n
		}
	}
}

type geocoder struct {
	baseURL          string
	userAgent        string
	httpClient       *http.Client
	limiter          *rate.Limiter
	batchConcurrency int
}

// NewClient creates a geocoding Client. Defaults follow the public Nominatim
// usage policy: 1 request per second.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		baseURL:          "https://nominatim.openstreetmap.org",
		userAgent:        "relief-cli",
		httpClient:       &http.Client{Timeout: 15 * time.Second},
		limiter:          rate.NewLimiter(1, 1),
		batchConcurrency: 2,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode implements Client.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: rate limit wait")
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, eris.Wrap(err, "geocode: decode response")
	}
	if len(places) == 0 {
		return &Result{Matched: false}, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: parse lat")
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: parse lon")
	}

	return &Result{
		Lat:         lat,
		Lon:         lon,
		DisplayName: places[0].DisplayName,
		Matched:     true,
	}, nil
}

// BatchGeocode implements Client by geocoding addresses in parallel. An
// individual miss or failure becomes an unmatched Result, never a batch
// failure.
func (g *geocoder) BatchGeocode(ctx context.Context, addresses []string) ([]Result, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	results := make([]Result, len(addresses))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.batchConcurrency)

	for i, addr := range addresses {
		i, addr := i, addr
		eg.Go(func() error {
			r, err := g.Geocode(gCtx, addr)
			if err != nil || r == nil {
				results[i] = Result{Matched: false}
				return nil //nolint:nilerr // individual misses don't fail the batch
			}
			results[i] = *r
			return nil
		})
	}

	_ = eg.Wait()
	return results, nil
}
