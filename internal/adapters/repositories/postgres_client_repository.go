package repositories

import (
	"context"
	"database/sql"
	"errors"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/platform/obs"
	"field-visit-planner/internal/ports"
	"fmt"

	"github.com/rs/zerolog"
)

// PostgreSQL-backed implementation of the ClientRepository port. It expects a
// *sql.DB opened with the pgx stdlib driver.
type PostgresClientRepository struct {
	DB  *sql.DB
	Log zerolog.Logger
}

func NewPostgresClientRepository(db *sql.DB, log zerolog.Logger) *PostgresClientRepository {
	return &PostgresClientRepository{DB: db, Log: log}
}

func (p *PostgresClientRepository) ListClients(ctx context.Context) (_ []domain.Client, err error) {
	defer obs.Time(ctx, p.Log, "postgres.ListClients")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres client repository: DB is nil")
	}

	rows, err := p.DB.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list clients: query clients table: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

func (p *PostgresClientRepository) GetClient(ctx context.Context, id string) (domain.Client, error) {
	if p.DB == nil {
		return domain.Client{}, errors.New("postgres client repository: DB is nil")
	}

	row := p.DB.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1;`, id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Client{}, fmt.Errorf("get client %q: %w", id, ports.ErrClientNotFound)
	}
	if err != nil {
		return domain.Client{}, fmt.Errorf("get client %q: %w", id, err)
	}
	return c, nil
}

func (p *PostgresClientRepository) UpdateLocation(ctx context.Context, id string, loc domain.Coordinates) error {
	if p.DB == nil {
		return errors.New("postgres client repository: DB is nil")
	}

	res, err := p.DB.ExecContext(ctx, `UPDATE clients SET lat = $1, lng = $2 WHERE id = $3;`, loc.Lat, loc.Lng, id)
	if err != nil {
		return fmt.Errorf("update client %q location: %w", id, err)
	}
	return requireOneRow(res, id)
}
