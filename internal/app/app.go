// Package app builds the concrete adapters selected by configuration. Both
// binaries share it so the server and the CLI wire the same stack.
package app

import (
	"context"
	"database/sql"
	"field-visit-planner/internal/adapters/cache"
	"field-visit-planner/internal/adapters/geocode"
	"field-visit-planner/internal/adapters/ids"
	"field-visit-planner/internal/adapters/repositories"
	"field-visit-planner/internal/adapters/store"
	"field-visit-planner/internal/config"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/platform/db"
	"field-visit-planner/internal/platform/metrics"
	"field-visit-planner/internal/ports"
	"field-visit-planner/internal/services"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Database is an open connection plus the SQL dialect it speaks.
type Database struct {
	DB      *sql.DB
	Dialect repositories.Dialect
}

func (d *Database) Close() error { return d.DB.Close() }

func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	switch cfg.Driver {
	case "postgres":
		conn, err := db.OpenPostgres(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return &Database{DB: conn, Dialect: repositories.DialectPostgres}, nil
	case "sqlite":
		conn, err := db.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Database{DB: conn, Dialect: repositories.DialectSQLite}, nil
	default:
		return nil, fmt.Errorf("open database: unknown driver %q", cfg.Driver)
	}
}

// Prepare creates the schema and, when seedPath is set, loads the seed file.
func (d *Database) Prepare(ctx context.Context, seedPath string) error {
	if err := repositories.InitSchema(ctx, d.DB, d.Dialect); err != nil {
		return err
	}
	if seedPath == "" {
		return nil
	}
	return repositories.SeedFromJSON(ctx, d.DB, d.Dialect, seedPath)
}

func (d *Database) Clients(log zerolog.Logger) ports.ClientRepository {
	if d.Dialect == repositories.DialectPostgres {
		return repositories.NewPostgresClientRepository(d.DB, log)
	}
	return repositories.NewSqliteClientRepository(d.DB, log)
}

func (d *Database) GeocodeCache(log zerolog.Logger) ports.GeocodeCache {
	if d.Dialect == repositories.DialectPostgres {
		return cache.NewPostgresGeocodeCache(d.DB, log)
	}
	return cache.NewSqliteGeocodeCache(d.DB, log)
}

// Geocoder returns the ORS geocoder backed by the database cache, or nil when
// no API key is configured.
func (d *Database) Geocoder(cfg config.GeocodingConfig, log zerolog.Logger) (ports.Geocoder, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	g, err := geocode.NewORSGeocoder(geocode.ORSConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Country: cfg.Country,
		Timeout: cfg.Timeout,
	}, d.GeocodeCache(log), log)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ScheduleStore returns the configured store and a func releasing its
// resources.
func ScheduleStore(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (ports.ScheduleStore, func() error, error) {
	if cfg.Backend != "redis" {
		return store.NewMemoryScheduleStore(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("schedule store: ping redis %s: %w", cfg.Redis.Addr, err)
	}

	s := store.NewRedisScheduleStore(client, store.RedisConfig{
		TTL:        cfg.Redis.TTL,
		MaxRetries: cfg.MaxRetries,
	}, log)
	return s, client.Close, nil
}

func Depot(cfg config.DepotConfig) domain.Depot {
	return domain.Depot{
		Name:     cfg.Name,
		Address:  cfg.Address,
		Location: domain.Coordinates{Lat: cfg.Lat, Lng: cfg.Lng},
	}
}

func NewScheduler(
	cfg *config.Config,
	clients ports.ClientRepository,
	schedules ports.ScheduleStore,
	rec metrics.Recorder,
	log zerolog.Logger,
) *services.Scheduler {
	return &services.Scheduler{
		Clients: clients,
		Store:   schedules,
		IDs:     ids.UUIDGenerator{},
		Metrics: rec,
		Log:     log,
		Depot:   Depot(cfg.Depot),
		Limits: services.Limits{
			MaxTeamCount:   cfg.Planning.MaxTeamCount,
			MaxHorizonDays: cfg.Planning.MaxHorizonDays,
			Parallelism:    cfg.Planning.Parallelism,
		},
	}
}
