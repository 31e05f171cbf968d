package ports

import (
	"context"
	"errors"
	"field-visit-planner/internal/domain"
)

// ErrClientNotFound is returned when no client has the requested id.
var ErrClientNotFound = errors.New("client not found")

// Port: a boundary for reading and geocoding Client records.
type ClientRepository interface {
	// Return every client, ordered by id.
	ListClients(ctx context.Context) ([]domain.Client, error)
	// Return one client or ErrClientNotFound.
	GetClient(ctx context.Context, id string) (domain.Client, error)
	// Store coordinates resolved for a client's address.
	UpdateLocation(ctx context.Context, id string, loc domain.Coordinates) error
}
