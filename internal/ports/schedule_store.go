package ports

import (
	"context"
	"errors"
	"field-visit-planner/internal/domain"
)

var (
	// ErrScheduleNotFound is returned when no schedule has the requested id.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrConflict is returned when a day could not be updated because of
	// concurrent writers.
	ErrConflict = errors.New("concurrent update conflict")
)

// DayUpdate receives the current routes of one date and returns their
// replacement. Returning an error aborts the update.
type DayUpdate func(routes []domain.Route) ([]domain.Route, error)

// Port: persistence of generated schedules.
//
// UpdateDay must serialize read-modify-write of one (schedule, date) entry so
// two concurrent updates never silently drop one. fn may be invoked more than
// once by optimistic implementations and must be free of side effects.
type ScheduleStore interface {
	Save(ctx context.Context, s *domain.Schedule) error
	Get(ctx context.Context, id string) (*domain.Schedule, error)
	UpdateDay(ctx context.Context, id string, date domain.DateKey, fn DayUpdate) ([]domain.Route, error)
}

// Source of schedule identifiers.
type IDGenerator interface {
	NewID() string
}
