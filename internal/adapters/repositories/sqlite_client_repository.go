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

// SQLite-backed implementation of the ClientRepository port.
type SqliteClientRepository struct {
	DB  *sql.DB
	Log zerolog.Logger
}

func NewSqliteClientRepository(db *sql.DB, log zerolog.Logger) *SqliteClientRepository {
	return &SqliteClientRepository{DB: db, Log: log}
}

// Return all clients stored in the database.
func (s *SqliteClientRepository) ListClients(ctx context.Context) (_ []domain.Client, err error) {
	defer obs.Time(ctx, s.Log, "sqlite.ListClients")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite client repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list clients: query clients table: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

func (s *SqliteClientRepository) GetClient(ctx context.Context, id string) (domain.Client, error) {
	if s.DB == nil {
		return domain.Client{}, errors.New("sqlite client repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?;`, id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Client{}, fmt.Errorf("get client %q: %w", id, ports.ErrClientNotFound)
	}
	if err != nil {
		return domain.Client{}, fmt.Errorf("get client %q: %w", id, err)
	}
	return c, nil
}

func (s *SqliteClientRepository) UpdateLocation(ctx context.Context, id string, loc domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("sqlite client repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE clients SET lat = ?, lng = ? WHERE id = ?;`, loc.Lat, loc.Lng, id)
	if err != nil {
		return fmt.Errorf("update client %q location: %w", id, err)
	}
	return requireOneRow(res, id)
}

func requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update client %q location: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update client %q location: %w", id, ports.ErrClientNotFound)
	}
	return nil
}
