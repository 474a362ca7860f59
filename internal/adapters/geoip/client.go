package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cmsguard/login-sentinel/internal/domain"
)

// DefaultBaseURL is the public ip-api.com endpoint.
const DefaultBaseURL = "http://ip-api.com/json"

// lookupTimeout bounds the whole lookup; geolocation is best-effort and must
// never hold up the login pipeline.
const lookupTimeout = 3 * time.Second

// Client implements ports.GeoLocator against an ip-api.com style JSON
// service: GET <base>/<address> returning {"status": "success", "city": ...,
// "country": ...}.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a lookup client. An empty baseURL selects the public
// ip-api.com endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: lookupTimeout},
	}
}

type lookupResponse struct {
	Status  string `json:"status"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Lookup resolves the address to a coarse location. Any transport, decoding
// or API-level failure is returned as an error; callers treat it as
// "location unknown".
func (c *Client) Lookup(ctx context.Context, address string) (*domain.Location, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building geolocation request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request for %s: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding geolocation response: %w", err)
	}

	if decoded.Status != "success" {
		return nil, fmt.Errorf("geolocation lookup unsuccessful for %s: status %q", address, decoded.Status)
	}

	return &domain.Location{City: decoded.City, Country: decoded.Country}, nil
}
