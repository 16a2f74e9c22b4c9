// Package geo translates coordinates into administrative geography. The
// external reverse-geocoding provider is the primary source; when it is
// unreachable, times out or has no data, resolution degrades to a local
// coordinate-to-timezone mapping instead of returning an error. Callers can
// tell the two apart only by the nil country/city fields, which is the
// intended contract: the fallback is the error-handling policy.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Geography is the two-variant outcome of resolving a coordinate pair.
// Resolved: Country, City and Locality populated from the provider.
// Fallback: Country and City nil, Locality set to a timezone identifier,
// Fallback true.
type Geography struct {
	Country  *string
	City     *string
	Locality string
	Fallback bool
}

// Resolver resolves a coordinate pair into geography. Implementations never
// return an error for valid coordinates; degradation is expressed through
// the Fallback variant.
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) Geography
}

// Client implements Resolver against an HTTP reverse-geocoding provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a reverse-geocoding client. The timeout bounds every
// provider lookup so a hung provider degrades to the fallback rather than
// stalling the caller.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// providerResponse mirrors the provider's answer for a coordinate pair.
type providerResponse struct {
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
	Locality    string `json:"locality"`
}

// Resolve queries the provider and falls back to the local timezone mapping
// on any failure or empty answer.
func (c *Client) Resolve(ctx context.Context, lat, lon float64) Geography {
	resp, err := c.lookup(ctx, lat, lon)
	if err != nil {
		log.Printf("geo: provider lookup for (%g, %g) failed: %v", lat, lon, err)
		return FallbackGeography(lat, lon)
	}
	if resp.Locality == "" {
		// Provider answered but knows nothing about this coordinate pair.
		return FallbackGeography(lat, lon)
	}
	g := Geography{Locality: resp.Locality}
	if resp.CountryCode != "" {
		country := resp.CountryCode
		g.Country = &country
	}
	if resp.City != "" {
		city := resp.City
		g.City = &city
	}
	return g
}

func (c *Client) lookup(ctx context.Context, lat, lon float64) (providerResponse, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return providerResponse{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providerResponse{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return providerResponse{}, fmt.Errorf("geocoder API error: status %d", resp.StatusCode)
	}

	var out providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return providerResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// FallbackGeography maps a coordinate pair to a timezone identifier built
// from 15-degree longitude bands. The mapping is total over the valid
// latitude/longitude domain and needs no polygon data or network: the
// zero-meridian band, including (0, 0), yields "Etc/GMT". POSIX Etc zones
// invert the sign, so Etc/GMT-3 is three hours ahead of UTC.
func FallbackGeography(lat, lon float64) Geography {
	offset := int(math.Round(lon / 15))
	zone := "Etc/GMT"
	switch {
	case offset > 0:
		zone = fmt.Sprintf("Etc/GMT-%d", offset)
	case offset < 0:
		zone = fmt.Sprintf("Etc/GMT+%d", -offset)
	}
	return Geography{Locality: zone, Fallback: true}
}
