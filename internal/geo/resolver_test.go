package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12.3456", r.URL.Query().Get("latitude"))
		assert.Equal(t, "23.4567", r.URL.Query().Get("longitude"))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(providerResponse{
			City:        "City",
			CountryCode: "AA",
			Locality:    "Location",
		}))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	g := c.Resolve(context.Background(), 12.3456, 23.4567)

	require.False(t, g.Fallback)
	require.NotNil(t, g.Country)
	require.NotNil(t, g.City)
	assert.Equal(t, "AA", *g.Country)
	assert.Equal(t, "City", *g.City)
	assert.Equal(t, "Location", g.Locality)
}

func TestResolve_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	g := c.Resolve(context.Background(), 0, 0)

	require.True(t, g.Fallback)
	assert.Nil(t, g.Country)
	assert.Nil(t, g.City)
	assert.Equal(t, "Etc/GMT", g.Locality)
}

func TestResolve_ProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listens on the URL anymore

	c := NewClient(srv.URL, time.Second)
	g := c.Resolve(context.Background(), 0, 0)

	require.True(t, g.Fallback)
	assert.Nil(t, g.Country)
	assert.Nil(t, g.City)
	assert.Equal(t, "Etc/GMT", g.Locality)
}

func TestResolve_EmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	g := c.Resolve(context.Background(), 55.7558, 37.6173)

	require.True(t, g.Fallback)
	assert.Equal(t, "Etc/GMT-3", g.Locality)
}

func TestResolve_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"city":"City","countryCode":"AA","locality":"Location"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond)
	g := c.Resolve(context.Background(), 0, 0)

	require.True(t, g.Fallback)
	assert.Equal(t, "Etc/GMT", g.Locality)
}

func TestFallbackGeography_ZeroMeridian(t *testing.T) {
	g := FallbackGeography(0, 0)

	assert.True(t, g.Fallback)
	assert.Nil(t, g.Country)
	assert.Nil(t, g.City)
	assert.Equal(t, "Etc/GMT", g.Locality)
}

func TestFallbackGeography_LongitudeBands(t *testing.T) {
	cases := []struct {
		lat, lon float64
		zone     string
	}{
		{89.9, 7.4, "Etc/GMT"},     // zero band extends to +/-7.5 degrees
		{10, 37.6, "Etc/GMT-3"},    // east of Greenwich runs ahead of UTC
		{-30, -74.1, "Etc/GMT+5"},  // west of Greenwich runs behind
		{0, 180, "Etc/GMT-12"},     // date line, east edge
		{0, -180, "Etc/GMT+12"},    // date line, west edge
	}
	for _, tc := range cases {
		g := FallbackGeography(tc.lat, tc.lon)
		assert.True(t, g.Fallback)
		assert.Equal(t, tc.zone, g.Locality, "(%g, %g)", tc.lat, tc.lon)
	}
}

func TestFallbackGeography_TotalOverDomain(t *testing.T) {
	for lat := -90.0; lat <= 90.0; lat += 30 {
		for lon := -180.0; lon <= 180.0; lon += 60 {
			g := FallbackGeography(lat, lon)
			assert.NotEmpty(t, g.Locality, "no locality for (%g, %g)", lat, lon)
			assert.True(t, g.Fallback)
		}
	}
}
