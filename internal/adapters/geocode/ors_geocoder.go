package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/platform/obs"
	"field-visit-planner/internal/ports"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://api.openrouteservice.org"

type ORSConfig struct {
	APIKey  string
	BaseURL string
	// Country restricts matches (ISO 3166 alpha-2/3); empty disables the boundary.
	Country string
	Timeout time.Duration
}

// ORSGeocoder implements ports.Geocoder using OpenRouteService /geocode/search.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching (optional)
//   - External API calls with retry/backoff
//
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	country string
	cache   ports.GeocodeCache
	log     zerolog.Logger

	maxAttempts int
	backoff     time.Duration
}

func NewORSGeocoder(cfg ORSConfig, cache ports.GeocodeCache, log zerolog.Logger) (*ORSGeocoder, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ORSGeocoder{
		session:     &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		country:     cfg.Country,
		cache:       cache,
		log:         log,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

// Normalize collapses whitespace so equivalent addresses share a cache key.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves one address, consulting the cache first.
func (o *ORSGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, o.log, "ors.Geocode")(&err)

	norm := Normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	if o.cache != nil {
		hits, err := o.cache.GetMany(ctx, []string{norm})
		if err != nil {
			// A broken cache only costs an API call.
			o.log.Warn().Err(err).Str("address", norm).Msg("geocode cache read failed")
		} else if c, ok := hits[norm]; ok {
			return c, nil
		}
	}

	coords, err := o.search(ctx, norm)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if o.cache != nil {
		if err := o.cache.PutMany(ctx, map[string]domain.Coordinates{norm: coords}); err != nil {
			o.log.Warn().Err(err).Str("address", norm).Msg("geocode cache write failed")
		}
	}

	return coords, nil
}

func (o *ORSGeocoder) search(ctx context.Context, norm string) (domain.Coordinates, error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, ports.ErrAddressNotFound
	}

	// GeoJSON order is [lng, lat].
	pt := decoded.Features[0].Geometry.Coordinates
	if len(pt) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format: %v", pt)
	}

	coords := domain.Coordinates{Lat: pt[1], Lng: pt[0]}
	if !coords.Valid() {
		return domain.Coordinates{}, fmt.Errorf("coordinates out of range: %v", pt)
	}
	return coords, nil
}
