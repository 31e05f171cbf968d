package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces environment overrides: PLANNER_STORE__BACKEND=redis
// sets store.backend.
const EnvPrefix = "PLANNER_"

type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Database  DatabaseConfig  `koanf:"database"`
	Depot     DepotConfig     `koanf:"depot"`
	Planning  PlanningConfig  `koanf:"planning"`
	Store     StoreConfig     `koanf:"store"`
	Geocoding GeocodingConfig `koanf:"geocoding"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// Load reads the optional YAML/JSON file at path, applies PLANNER_
// environment overrides, fills defaults and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("load config: unsupported format %q", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load config: env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("load config: decode: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// envKey maps PLANNER_DATABASE__SEED_PATH to database.seed_path.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) SetDefaults() {
	c.HTTP.SetDefaults()
	c.Database.SetDefaults()
	c.Depot.SetDefaults()
	c.Planning.SetDefaults()
	c.Store.SetDefaults()
	c.Geocoding.SetDefaults()
	c.Log.SetDefaults()
	c.Metrics.SetDefaults()
}

func (c Config) Validate() error {
	validators := []struct {
		name string
		fn   func() error
	}{
		{"http", c.HTTP.Validate},
		{"database", c.Database.Validate},
		{"depot", c.Depot.Validate},
		{"planning", c.Planning.Validate},
		{"store", c.Store.Validate},
		{"log", c.Log.Validate},
	}
	for _, v := range validators {
		if err := v.fn(); err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
	}
	return nil
}
