package cache

import (
	"context"
	"database/sql"
	"errors"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/platform/obs"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// SQLite backed cache mapping address strings to geographic coordinates.
// Address keys are expected to be normalized by the caller.
type SqliteGeocodeCache struct {
	DB  *sql.DB
	Log zerolog.Logger
}

func NewSqliteGeocodeCache(db *sql.DB, log zerolog.Logger) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db, Log: log}
}

// Fetch cached coordinates for the given addresses.
func (s *SqliteGeocodeCache) GetMany(ctx context.Context, addresses []string) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, s.Log, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, a := range uniq {
		args = append(args, a)
	}

	// SQLite cannot bind a slice to IN (...); only the placeholder list is
	// interpolated, every value stays parameterized.
	q := fmt.Sprintf(`
	SELECT address, lat, lng
	FROM geocode_cache
	WHERE address IN (%s);
	`, strings.TrimSuffix(strings.Repeat("?,", len(uniq)), ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	return scanCoordinates(rows, len(uniq))
}

// Store address -> coordinate mappings in the cache.
func (s *SqliteGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	return putMany(ctx, s.DB, `
	INSERT OR REPLACE INTO geocode_cache (address, lat, lng)
	VALUES (?, ?, ?);
	`, results)
}
