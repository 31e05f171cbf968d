package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

type HTTPConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	// RequestTimeout bounds the handler context of every request.
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 20 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

func (c HTTPConfig) Validate() error {
	if c.RequestTimeout > c.WriteTimeout {
		return fmt.Errorf("request_timeout %s exceeds write_timeout %s", c.RequestTimeout, c.WriteTimeout)
	}
	return nil
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver   string `koanf:"driver"`
	Path     string `koanf:"path"`
	URL      string `koanf:"url"`
	SeedPath string `koanf:"seed_path"`
	// SeedOnStart initializes the schema and loads SeedPath at server start.
	SeedOnStart bool `koanf:"seed_on_start"`
}

func (c *DatabaseConfig) SetDefaults() {
	if c.Driver == "" {
		c.Driver = "sqlite"
	}
	if c.Path == "" {
		c.Path = "data/app.db"
	}
	if c.SeedPath == "" {
		c.SeedPath = "data/seeds/clients.json"
	}
}

func (c DatabaseConfig) Validate() error {
	switch c.Driver {
	case "sqlite":
		if strings.TrimSpace(c.Path) == "" {
			return errors.New("path is required for sqlite")
		}
	case "postgres":
		if strings.TrimSpace(c.URL) == "" {
			return errors.New("url is required for postgres")
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	return nil
}

type DepotConfig struct {
	Name    string  `koanf:"name"`
	Address string  `koanf:"address"`
	Lat     float64 `koanf:"lat"`
	Lng     float64 `koanf:"lng"`
}

// SetDefaults places the depot in Spokane when no location is configured.
func (c *DepotConfig) SetDefaults() {
	if c.Lat == 0 && c.Lng == 0 {
		c.Lat, c.Lng = 47.6588, -117.4260
		if c.Name == "" {
			c.Name = "Spokane Depot"
		}
		if c.Address == "" {
			c.Address = "Spokane, WA"
		}
	}
}

func (c DepotConfig) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 || math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("location %v,%v out of range", c.Lat, c.Lng)
	}
	return nil
}

type PlanningConfig struct {
	DefaultTeamCount   int  `koanf:"default_team_count"`
	MaxTeamCount       int  `koanf:"max_team_count"`
	DefaultHorizonDays int  `koanf:"default_horizon_days"`
	MaxHorizonDays     int  `koanf:"max_horizon_days"`
	Parallelism        int  `koanf:"parallelism"`
	IncludeReturn      bool `koanf:"include_return"`
}

func (c *PlanningConfig) SetDefaults() {
	if c.DefaultTeamCount <= 0 {
		c.DefaultTeamCount = 2
	}
	if c.MaxTeamCount <= 0 {
		c.MaxTeamCount = 20
	}
	if c.DefaultHorizonDays <= 0 {
		c.DefaultHorizonDays = 14
	}
	if c.MaxHorizonDays <= 0 {
		c.MaxHorizonDays = 92
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 4
	}
}

func (c PlanningConfig) Validate() error {
	if c.DefaultTeamCount > c.MaxTeamCount {
		return fmt.Errorf("default_team_count %d > max_team_count %d", c.DefaultTeamCount, c.MaxTeamCount)
	}
	if c.DefaultHorizonDays > c.MaxHorizonDays {
		return fmt.Errorf("default_horizon_days %d > max_horizon_days %d", c.DefaultHorizonDays, c.MaxHorizonDays)
	}
	return nil
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend    string      `koanf:"backend"`
	Redis      RedisConfig `koanf:"redis"`
	MaxRetries int         `koanf:"max_retries"`
}

func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
}

func (c StoreConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "redis" {
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Redis.TTL < 0 {
		return errors.New("redis ttl must not be negative")
	}
	return nil
}

type GeocodingConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Country string        `koanf:"country"`
	Timeout time.Duration `koanf:"timeout"`
}

// SetDefaults leaves APIKey empty: geocoding is disabled without one.
func (c *GeocodingConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openrouteservice.org"
	}
	if c.Country == "" {
		c.Country = "US"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// Enabled reports whether an API key is configured.
func (c GeocodingConfig) Enabled() bool { return strings.TrimSpace(c.APIKey) != "" }

type LogConfig struct {
	// Env "dev" selects console output.
	Env   string `koanf:"env"`
	Level string `koanf:"level"`
}

func (c *LogConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

func (c LogConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "trace", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown level %q", c.Level)
}

type MetricsConfig struct {
	Disabled bool   `koanf:"disabled"`
	Path     string `koanf:"path"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "/metrics"
	}
}
