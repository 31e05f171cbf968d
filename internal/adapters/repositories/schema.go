package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"field-visit-planner/internal/domain"
	"fmt"
	"os"
	"strings"
)

// Dialect selects SQL syntax for the supported databases.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		lat REAL,
		lng REAL,
		frequency TEXT NOT NULL,
		preferred_days TEXT NOT NULL DEFAULT '',
		duration_min INTEGER NOT NULL DEFAULT 60,
		window_start TEXT NOT NULL DEFAULT '08:00',
		window_end TEXT NOT NULL DEFAULT '17:00'
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lng REAL NOT NULL
	);
	`,
}

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		frequency TEXT NOT NULL,
		preferred_days TEXT NOT NULL DEFAULT '',
		duration_min INTEGER NOT NULL DEFAULT 60,
		window_start TEXT NOT NULL DEFAULT '08:00',
		window_end TEXT NOT NULL DEFAULT '17:00'
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`,
}

// Initialize the clients and geocode cache tables.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var statements []string
	switch dialect {
	case DialectSQLite:
		statements = sqliteSchema
	case DialectPostgres:
		statements = postgresSchema
	default:
		return fmt.Errorf("init schema: unsupported dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// LoadSeed reads and validates a clients JSON file.
func LoadSeed(jsonPath string) ([]domain.Client, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed clients: read %q: %w", jsonPath, err)
	}

	var data []domain.Client
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed clients: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	for i := range data {
		c := &data[i]
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return nil, fmt.Errorf("seed clients: item %d: id cannot be empty", i+1)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("seed clients: item %d: duplicate id %q", i+1, c.ID)
		}
		seen[c.ID] = struct{}{}

		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("seed clients: item %d: name cannot be empty", i+1)
		}
		if !c.Recurrence.Frequency.Known() {
			return nil, fmt.Errorf("seed clients: item %d: unknown frequency %q", i+1, c.Recurrence.Frequency)
		}
		for _, d := range c.Recurrence.PreferredDays {
			if d < 0 || d > 6 {
				return nil, fmt.Errorf("seed clients: item %d: weekday %d out of range", i+1, d)
			}
		}
		if c.Location != nil && !c.Location.Valid() {
			return nil, fmt.Errorf("seed clients: item %d: invalid location", i+1)
		}
	}

	return data, nil
}

// Populate the clients table from a JSON file. Existing ids are overwritten.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) error {
	clients, err := LoadSeed(jsonPath)
	if err != nil {
		return err
	}

	var query string
	switch dialect {
	case DialectSQLite:
		query = `
		INSERT OR REPLACE INTO clients (
			id, name, address, lat, lng, frequency, preferred_days,
			duration_min, window_start, window_end
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`
	case DialectPostgres:
		query = `
		INSERT INTO clients (
			id, name, address, lat, lng, frequency, preferred_days,
			duration_min, window_start, window_end
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			frequency = EXCLUDED.frequency,
			preferred_days = EXCLUDED.preferred_days,
			duration_min = EXCLUDED.duration_min,
			window_start = EXCLUDED.window_start,
			window_end = EXCLUDED.window_end;
		`
	default:
		return fmt.Errorf("seed clients: unsupported dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed clients: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed clients: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range clients {
		var lat, lng sql.NullFloat64
		if c.Location != nil {
			lat = sql.NullFloat64{Float64: c.Location.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: c.Location.Lng, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			c.ID, c.Name, c.Address, lat, lng,
			string(c.Recurrence.Frequency), formatWeekdays(c.Recurrence.PreferredDays),
			c.DurationMin, c.WindowStart, c.WindowEnd,
		); err != nil {
			return fmt.Errorf("seed clients: insert id=%s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed clients: commit tx: %w", err)
	}

	return nil
}
