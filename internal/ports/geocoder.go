package ports

import (
	"context"
	"errors"
	"field-visit-planner/internal/domain"
)

// ErrAddressNotFound is returned when a geocoder has no match for an address.
var ErrAddressNotFound = errors.New("address not found")

// Contract for turning a free-text address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Persistent lookup of previously geocoded addresses, keyed by normalized address.
type GeocodeCache interface {
	// Return the cached subset of keys; missing keys are simply absent.
	GetMany(ctx context.Context, keys []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, entries map[string]domain.Coordinates) error
}
