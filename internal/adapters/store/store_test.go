package store

import (
	"context"
	"errors"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/ports"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDepot = domain.Depot{Name: "Spokane Depot", Location: domain.Coordinates{Lat: 47.6588, Lng: -117.4260}}

func testSchedule() *domain.Schedule {
	routes := domain.EmptyRoutes(testDepot, 2)
	routes[0].Stops = []domain.Stop{{
		Visit:        domain.Visit{ClientID: "c1", Name: "Riverfront Suites", DurationMin: 90, WindowStart: 540, WindowEnd: 1020},
		PlannedStart: 540,
		PlannedEnd:   630,
	}}
	routes[0].TotalMinutes = 90.5

	return &domain.Schedule{
		ID:          "s-1",
		Depot:       testDepot,
		TeamCount:   2,
		StartDate:   "2026-10-19",
		HorizonDays: 7,
		WeekAnchor:  time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		Plan:        domain.Plan{"2026-10-19": routes},
		Warnings:    []domain.Warning{{Date: "2026-10-20", ClientID: "c9", Reason: "no location"}},
		CreatedAt:   time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
}

func appendStop(id string) ports.DayUpdate {
	return func(routes []domain.Route) ([]domain.Route, error) {
		routes[1].Stops = append(routes[1].Stops, domain.Stop{Visit: domain.Visit{ClientID: id}})
		return routes, nil
	}
}

func newRedisStore(t *testing.T, cfg RedisConfig) (*RedisScheduleStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisScheduleStore(client, cfg, zerolog.Nop()), mr, client
}

// storeContract runs the behavior every ports.ScheduleStore must share.
func storeContract(t *testing.T, s ports.ScheduleStore) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, ports.ErrScheduleNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		want := testSchedule()
		require.NoError(t, s.Save(ctx, want))

		got, err := s.Get(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.TeamCount, got.TeamCount)
		assert.True(t, want.WeekAnchor.Equal(got.WeekAnchor))
		assert.Equal(t, want.Warnings, got.Warnings)
		assert.Equal(t, want.Plan, got.Plan)
	})

	t.Run("update existing day", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, testSchedule()))

		routes, err := s.UpdateDay(ctx, "s-1", "2026-10-19", appendStop("c2"))
		require.NoError(t, err)
		assert.Len(t, routes[1].Stops, 1)

		got, err := s.Get(ctx, "s-1")
		require.NoError(t, err)
		assert.Len(t, got.Plan["2026-10-19"][0].Stops, 1)
		assert.Equal(t, "c2", got.Plan["2026-10-19"][1].Stops[0].ClientID)
	})

	t.Run("update unplanned day", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, testSchedule()))

		var seen []domain.Route
		_, err := s.UpdateDay(ctx, "s-1", "2026-12-01", func(routes []domain.Route) ([]domain.Route, error) {
			seen = routes
			return appendStop("c3")(routes)
		})
		require.NoError(t, err)
		require.Len(t, seen, 2)
		assert.Equal(t, 1, seen[0].TeamID)

		got, err := s.Get(ctx, "s-1")
		require.NoError(t, err)
		assert.Contains(t, got.Plan, domain.DateKey("2026-12-01"))
	})

	t.Run("update aborted by fn", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, testSchedule()))
		boom := errors.New("boom")

		_, err := s.UpdateDay(ctx, "s-1", "2026-10-19", func([]domain.Route) ([]domain.Route, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := s.Get(ctx, "s-1")
		require.NoError(t, err)
		assert.Empty(t, got.Plan["2026-10-19"][1].Stops)
	})

	t.Run("update missing schedule", func(t *testing.T) {
		_, err := s.UpdateDay(ctx, "nope", "2026-10-19", appendStop("x"))
		assert.ErrorIs(t, err, ports.ErrScheduleNotFound)
	})

	t.Run("concurrent updates are all kept", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, testSchedule()))

		const writers = 8
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.UpdateDay(ctx, "s-1", "2026-10-19", appendStop(fmt.Sprintf("w%d", i)))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := s.Get(ctx, "s-1")
		require.NoError(t, err)
		assert.Len(t, got.Plan["2026-10-19"][1].Stops, writers)
	})
}

func TestMemoryScheduleStore(t *testing.T) {
	storeContract(t, NewMemoryScheduleStore())
}

func TestRedisScheduleStore(t *testing.T) {
	s, _, _ := newRedisStore(t, RedisConfig{MaxRetries: 50})
	storeContract(t, s)
}

func TestMemoryScheduleStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryScheduleStore()
	sched := testSchedule()
	require.NoError(t, s.Save(ctx, sched))

	sched.Plan["2026-10-19"][0].Stops[0].ClientID = "mutated"

	got, err := s.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.Plan["2026-10-19"][0].Stops[0].ClientID)

	got.Plan["2026-10-19"][0].Stops[0].ClientID = "mutated"
	again, err := s.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "c1", again.Plan["2026-10-19"][0].Stops[0].ClientID)
}

func TestRedisScheduleStoreKeysAndTTL(t *testing.T) {
	s, mr, _ := newRedisStore(t, RedisConfig{TTL: time.Hour})
	require.NoError(t, s.Save(context.Background(), testSchedule()))

	assert.True(t, mr.Exists("planner:schedule:s-1"))
	assert.True(t, mr.Exists("planner:schedule:s-1:day:2026-10-19"))
	assert.Equal(t, time.Hour, mr.TTL("planner:schedule:s-1"))

	members, err := mr.Members("planner:schedule:s-1:days")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-19"}, members)
}

func TestRedisScheduleStoreConflict(t *testing.T) {
	s, _, other := newRedisStore(t, RedisConfig{MaxRetries: 3})
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testSchedule()))

	calls := 0
	_, err := s.UpdateDay(ctx, "s-1", "2026-10-19", func(routes []domain.Route) ([]domain.Route, error) {
		calls++
		// A competing writer touches the watched key on every attempt.
		require.NoError(t, other.Set(ctx, "planner:schedule:s-1:day:2026-10-19", "[]", 0).Err())
		return routes, nil
	})

	assert.ErrorIs(t, err, ports.ErrConflict)
	assert.Equal(t, 3, calls)
}

func TestMemoryScheduleStoreUpdateRestartsAfterSave(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryScheduleStore()
	require.NoError(t, s.Save(ctx, testSchedule()))

	replacement := testSchedule()
	replacement.HorizonDays = 14
	replacement.Plan["2026-10-19"][1].Stops = []domain.Stop{{Visit: domain.Visit{ClientID: "fresh"}}}

	calls := 0
	routes, err := s.UpdateDay(ctx, "s-1", "2026-10-19", func(routes []domain.Route) ([]domain.Route, error) {
		calls++
		if calls == 1 {
			// The schedule is regenerated while the update is in flight.
			require.NoError(t, s.Save(ctx, replacement))
		}
		return appendStop("x")(routes)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	got, err := s.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 14, got.HorizonDays)
	day := got.Plan["2026-10-19"][1].Stops
	require.Len(t, day, 2)
	assert.Equal(t, "fresh", day[0].ClientID)
	assert.Equal(t, "x", day[1].ClientID)
	assert.Equal(t, routes, got.Plan["2026-10-19"])
}

func TestMemoryScheduleStoreConflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryScheduleStore()
	require.NoError(t, s.Save(ctx, testSchedule()))

	calls := 0
	_, err := s.UpdateDay(ctx, "s-1", "2026-10-19", func(routes []domain.Route) ([]domain.Route, error) {
		calls++
		require.NoError(t, s.Save(ctx, testSchedule()))
		return routes, nil
	})

	assert.ErrorIs(t, err, ports.ErrConflict)
	assert.Equal(t, DefaultMaxRetries, calls)
}
