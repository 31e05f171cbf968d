package geocode

import (
	"context"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/ports"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu sync.Mutex
	m  map[string]domain.Coordinates
}

func (c *mapCache) GetMany(_ context.Context, keys []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.Coordinates{}
	for _, k := range keys {
		if v, ok := c.m[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (c *mapCache) PutMany(_ context.Context, entries map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range entries {
		c.m[k] = v
	}
	return nil
}

func newTestGeocoder(t *testing.T, url string, cache ports.GeocodeCache) *ORSGeocoder {
	t.Helper()
	g, err := NewORSGeocoder(ORSConfig{APIKey: "test-key", BaseURL: url, Country: "US"}, cache, zerolog.Nop())
	require.NoError(t, err)
	g.backoff = time.Millisecond
	return g
}

const spokaneFeature = `{"features":[{"geometry":{"coordinates":[-117.4202,47.6611]}}]}`

func TestGeocodeQueriesORS(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "507 N Howard St, Spokane, WA", r.URL.Query().Get("text"))
		assert.Equal(t, "US", r.URL.Query().Get("boundary.country"))
		_, _ = w.Write([]byte(spokaneFeature))
	}))
	defer srv.Close()

	cache := &mapCache{m: map[string]domain.Coordinates{}}
	g := newTestGeocoder(t, srv.URL, cache)

	got, err := g.Geocode(context.Background(), "  507 N Howard St,   Spokane, WA ")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 47.6611, Lng: -117.4202}, got)

	// Second lookup is served from the cache.
	_, err = g.Geocode(context.Background(), "507 N Howard St, Spokane, WA")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, cache.m, "507 N Howard St, Spokane, WA")
}

func TestGeocodeRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(spokaneFeature))
	}))
	defer srv.Close()

	g := newTestGeocoder(t, srv.URL, nil)
	_, err := g.Geocode(context.Background(), "Spokane")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGeocodeDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	g := newTestGeocoder(t, srv.URL, nil)
	_, err := g.Geocode(context.Background(), "Spokane")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGeocodeNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	g := newTestGeocoder(t, srv.URL, nil)
	_, err := g.Geocode(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ports.ErrAddressNotFound)
}

func TestNewORSGeocoderRequiresKey(t *testing.T) {
	_, err := NewORSGeocoder(ORSConfig{}, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a \t b\n c "))
	assert.Equal(t, "", Normalize("   "))
}
