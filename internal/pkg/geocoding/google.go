package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cliqueup/cliqueup/internal/pkg/geo"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Provider status values that mean "no usable result" rather than a
// transport failure.
var (
	ErrNoResults     = errors.New("no geocoding results")
	ErrProviderError = errors.New("geocoding provider error")
)

// GoogleClient resolves addresses via the Google Maps Geocoding API.
type GoogleClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// GoogleOption configures a GoogleClient.
type GoogleOption func(*GoogleClient)

// WithBaseURL overrides the provider endpoint. Used in tests.
func WithBaseURL(baseURL string) GoogleOption {
	return func(c *GoogleClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) GoogleOption {
	return func(c *GoogleClient) {
		c.http = client
	}
}

// NewGoogleClient creates a geocoding client backed by the Google Maps
// Geocoding API.
func NewGoogleClient(apiKey string, timeout time.Duration, opts ...GoogleOption) *GoogleClient {
	c := &GoogleClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// googleResponse mirrors the subset of the provider response we read
type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve geocodes the address and returns the first result's location.
// Every failure mode (transport error, non-200 response, provider error
// status, empty result set, malformed body) is returned as a *Error
// wrapping the cause. No retry is attempted and no fallback coordinate
// is ever synthesized.
func (c *GoogleClient) Resolve(ctx context.Context, address string) (geo.Coordinate, error) {
	params := url.Values{}
	params.Set("address", address)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return geo.Coordinate{}, NewError(address, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return geo.Coordinate{}, NewError(address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, NewError(address, fmt.Errorf("%w: unexpected status %d", ErrProviderError, resp.StatusCode))
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Coordinate{}, NewError(address, fmt.Errorf("decoding response: %w", err))
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return geo.Coordinate{}, NewError(address, ErrNoResults)
	default:
		return geo.Coordinate{}, NewError(address, fmt.Errorf("%w: status %s", ErrProviderError, body.Status))
	}

	if len(body.Results) == 0 {
		return geo.Coordinate{}, NewError(address, ErrNoResults)
	}

	loc := body.Results[0].Geometry.Location
	return geo.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
