// Package geocode resolves affiliation strings to coordinates with the
// Google Geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/matsen/affil/internal/export"
	"github.com/matsen/affil/internal/fetch"
)

// DefaultBaseURL is the Geocoding API endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// StatusOK is the API status of a successful lookup.
const StatusOK = "OK"

// ErrNoAPIKey indicates a client built without an API key.
var ErrNoAPIKey = errors.New("no geocoding API key configured")

type response struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Client looks up addresses.
type Client struct {
	http    *fetch.Client
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithLogger sets the logger for lookups that return no coordinates.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a geocoder issuing requests through hc.
func NewClient(hc *fetch.Client, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	c := &Client{http: hc, apiKey: apiKey, baseURL: DefaultBaseURL, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Lookup geocodes one address. A response whose status is not OK yields a
// location without coordinates and no error; transport failures are errors.
func (c *Client) Lookup(ctx context.Context, address string) (export.Location, error) {
	loc := export.Location{Name: address}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)
	body, err := c.http.Get(ctx, c.baseURL+"?"+q.Encode())
	if err != nil {
		return loc, fmt.Errorf("geocoding %q: %w", address, err)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return loc, fmt.Errorf("parsing geocoding response for %q: %w", address, err)
	}
	if resp.Status != StatusOK || len(resp.Results) == 0 {
		c.logger.Warn("no coordinates", "address", address, "status", resp.Status, "message", resp.ErrorMessage)
		return loc, nil
	}

	lat, lng := resp.Results[0].Geometry.Location.Lat, resp.Results[0].Geometry.Location.Lng
	loc.Lat, loc.Lng = &lat, &lng
	return loc, nil
}

// LookupAll geocodes addresses in order, reusing entries of known whose
// coordinates are already resolved.
func (c *Client) LookupAll(ctx context.Context, addresses []string, known []export.Location) ([]export.Location, error) {
	cache := make(map[string]export.Location, len(known))
	for _, l := range known {
		if l.Lat != nil && l.Lng != nil {
			cache[l.Name] = l
		}
	}

	out := make([]export.Location, 0, len(addresses))
	for _, a := range addresses {
		if l, ok := cache[a]; ok {
			out = append(out, l)
			continue
		}
		l, err := c.Lookup(ctx, a)
		if err != nil {
			return out, err
		}
		out = append(out, l)
	}
	return out, nil
}
