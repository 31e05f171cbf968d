package store

import (
	"context"
	"errors"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/ports"
	"fmt"
	"sync"
)

type dayLockKey struct {
	id   string
	date domain.DateKey
}

// MemoryScheduleStore keeps schedules in process memory. Callers always get
// copies, so stored routes cannot be modified from outside.
type MemoryScheduleStore struct {
	mu        sync.RWMutex
	schedules map[string]*domain.Schedule

	locksMu  sync.Mutex
	dayLocks map[dayLockKey]*sync.Mutex
}

func NewMemoryScheduleStore() *MemoryScheduleStore {
	return &MemoryScheduleStore{
		schedules: make(map[string]*domain.Schedule),
		dayLocks:  make(map[dayLockKey]*sync.Mutex),
	}
}

func (m *MemoryScheduleStore) Save(_ context.Context, s *domain.Schedule) error {
	if s == nil || s.ID == "" {
		return errors.New("save schedule: schedule id is empty")
	}

	cp := cloneSchedule(s)

	m.mu.Lock()
	m.schedules[s.ID] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryScheduleStore) Get(_ context.Context, id string) (*domain.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.schedules[id]
	if !ok {
		return nil, fmt.Errorf("get schedule %q: %w", id, ports.ErrScheduleNotFound)
	}
	return cloneSchedule(s), nil
}

// UpdateDay runs fn under a lock scoped to (id, date): updates to other dates
// or schedules proceed concurrently. Save does not take the day lock, so a
// schedule replaced while fn ran makes the update start over on the new one.
func (m *MemoryScheduleStore) UpdateDay(
	ctx context.Context,
	id string,
	date domain.DateKey,
	fn ports.DayUpdate,
) ([]domain.Route, error) {
	lock := m.dayLock(id, date)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 0; attempt < DefaultMaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m.mu.RLock()
		s, ok := m.schedules[id]
		var current []domain.Route
		if ok {
			current = cloneRoutes(s.Day(date))
		}
		m.mu.RUnlock()

		if !ok {
			return nil, fmt.Errorf("update schedule %q day %s: %w", id, date, ports.ErrScheduleNotFound)
		}

		updated, err := fn(current)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		if m.schedules[id] != s {
			m.mu.Unlock()
			continue
		}
		s.Plan[date] = cloneRoutes(updated)
		m.mu.Unlock()

		return cloneRoutes(updated), nil
	}

	return nil, fmt.Errorf("update schedule %q day %s: %w", id, date, ports.ErrConflict)
}

func (m *MemoryScheduleStore) dayLock(id string, date domain.DateKey) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()

	k := dayLockKey{id: id, date: date}
	l, ok := m.dayLocks[k]
	if !ok {
		l = &sync.Mutex{}
		m.dayLocks[k] = l
	}
	return l
}
