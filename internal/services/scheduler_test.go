package services

import (
	"context"
	"field-visit-planner/internal/adapters/ids"
	"field-visit-planner/internal/adapters/store"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/ports"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClients struct {
	mu      sync.Mutex
	clients map[string]domain.Client
}

func newFakeClients(cs ...domain.Client) *fakeClients {
	f := &fakeClients{clients: map[string]domain.Client{}}
	for _, c := range cs {
		f.clients[c.ID] = c
	}
	return f
}

func (f *fakeClients) ListClients(context.Context) ([]domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Client, 0, len(f.clients))
	for _, c := range f.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeClients) GetClient(_ context.Context, id string) (domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return domain.Client{}, fmt.Errorf("get client %q: %w", id, ports.ErrClientNotFound)
	}
	return c, nil
}

func (f *fakeClients) UpdateLocation(_ context.Context, id string, loc domain.Coordinates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return ports.ErrClientNotFound
	}
	c.Location = &loc
	f.clients[id] = c
	return nil
}

func newTestScheduler(clients ...domain.Client) *Scheduler {
	return &Scheduler{
		Clients: newFakeClients(clients...),
		Store:   store.NewMemoryScheduleStore(),
		IDs:     ids.NewSequenceGenerator("sched"),
		Log:     zerolog.Nop(),
		Depot:   spokaneDepot,
		Limits:  Limits{MaxTeamCount: 10, MaxHorizonDays: 31},
		Now:     func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) },
	}
}

func TestSchedulerGenerateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestScheduler(demoClients()...)

	sched, err := s.Generate(ctx, GenerateRequest{StartDate: day(2026, 10, 19), Days: 7, TeamCount: 2})
	require.NoError(t, err)
	assert.Equal(t, "sched-1", sched.ID)
	assert.Equal(t, domain.DateKey("2026-10-19"), sched.StartDate)
	assert.Len(t, sched.Plan, 7)

	got, err := s.Get(ctx, "sched-1")
	require.NoError(t, err)
	assert.Equal(t, sched.Plan, got.Plan)

	_, err = s.Get(ctx, "sched-9")
	assert.ErrorIs(t, err, ports.ErrScheduleNotFound)
}

func TestSchedulerGenerateLimits(t *testing.T) {
	s := newTestScheduler(demoClients()...)

	_, err := s.Generate(context.Background(), GenerateRequest{StartDate: day(2026, 10, 19), Days: 60, TeamCount: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = s.Generate(context.Background(), GenerateRequest{StartDate: day(2026, 10, 19), Days: 7, TeamCount: 11})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = s.Generate(context.Background(), GenerateRequest{StartDate: day(2026, 10, 19), Days: 7, TeamCount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSchedulerSuggestAndApply(t *testing.T) {
	ctx := context.Background()
	s := newTestScheduler(demoClients()...)

	sched, err := s.Generate(ctx, GenerateRequest{StartDate: day(2026, 10, 19), Days: 7, TeamCount: 2})
	require.NoError(t, err)

	// Move the Yakima client onto Friday.
	friday := domain.DateKey("2026-10-23")
	before, err := s.Day(ctx, sched.ID, friday)
	require.NoError(t, err)
	stopsBefore := len(before[0].Stops) + len(before[1].Stops)

	options, err := s.Suggest(ctx, sched.ID, "c2", friday)
	require.NoError(t, err)
	require.NotEmpty(t, options)

	best := options[0]
	res, err := s.Apply(ctx, sched.ID, "c2", friday, best.TeamID, best.Index)
	require.NoError(t, err)
	assert.Equal(t, best.AddedMinutes, res.Option.AddedMinutes)
	assert.Equal(t, best.Feasible, res.Option.Feasible)

	after, err := s.Day(ctx, sched.ID, friday)
	require.NoError(t, err)
	assert.Equal(t, stopsBefore+1, len(after[0].Stops)+len(after[1].Stops))

	inserted := after[best.TeamID-1].Stops[best.Index]
	assert.Equal(t, "c2", inserted.ClientID)
	assert.Equal(t, TimelineFeasible(after[best.TeamID-1].Stops), res.Option.Feasible)
}

func TestSchedulerApplyReevaluatesAgainstStoredDay(t *testing.T) {
	ctx := context.Background()
	d := spokaneDepot.Location
	a := weeklyClient("a", d.Lat+0.1, d.Lng)
	b := weeklyClient("b", d.Lat+0.2, d.Lng)
	s := newTestScheduler(a, b)

	sched, err := s.Generate(ctx, GenerateRequest{StartDate: day(2026, 10, 19), Days: 1, TeamCount: 1})
	require.NoError(t, err)
	date := domain.DateKey("2026-10-19")

	// Two applies chosen from the same stale listing both land.
	_, err = s.Apply(ctx, sched.ID, "a", date, 1, 0)
	require.NoError(t, err)
	res, err := s.Apply(ctx, sched.ID, "b", date, 1, 0)
	require.NoError(t, err)

	routes, err := s.Day(ctx, sched.ID, date)
	require.NoError(t, err)
	require.Len(t, routes[0].Stops, 4)
	assert.Equal(t, res.Option.Timeline, routes[0].Stops)
}

func TestSchedulerApplyErrors(t *testing.T) {
	ctx := context.Background()
	unlocated := weeklyClient("u", 0, 0)
	unlocated.Location = nil
	s := newTestScheduler(append(demoClients(), unlocated)...)

	sched, err := s.Generate(ctx, GenerateRequest{StartDate: day(2026, 10, 19), Days: 2, TeamCount: 2})
	require.NoError(t, err)

	_, err = s.Apply(ctx, sched.ID, "missing", "2026-10-19", 1, 0)
	assert.ErrorIs(t, err, ports.ErrClientNotFound)

	_, err = s.Apply(ctx, sched.ID, "u", "2026-10-19", 1, 0)
	assert.ErrorIs(t, err, domain.ErrClientNotLocated)

	_, err = s.Apply(ctx, sched.ID, "c1", "2026-10-19", 5, 0)
	assert.ErrorIs(t, err, domain.ErrUnknownTeam)

	_, err = s.Apply(ctx, sched.ID, "c1", "2026-10-19", 1, 99)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = s.Apply(ctx, "nope", "c1", "2026-10-19", 1, 0)
	assert.ErrorIs(t, err, ports.ErrScheduleNotFound)

	_, err = s.Suggest(ctx, sched.ID, "u", "2026-10-19")
	assert.ErrorIs(t, err, domain.ErrClientNotLocated)
}

func TestSchedulerSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestScheduler(demoClients()...)
	sched, err := s.Generate(ctx, GenerateRequest{StartDate: day(2026, 10, 19), Days: 7, TeamCount: 2})
	require.NoError(t, err)

	summary, err := s.Summary(ctx, sched.ID)
	require.NoError(t, err)
	require.Len(t, summary, 7)

	total := 0
	for _, d := range summary {
		total += d.Visits
	}
	assert.Equal(t, 9, total)
}

func TestSchedulerRecurrence(t *testing.T) {
	s := newTestScheduler(demoClients()...)

	info, err := s.Recurrence(context.Background(), "c2", day(2026, 10, 19), 14)
	require.NoError(t, err)
	assert.Contains(t, info.Rule, "INTERVAL=2")
	assert.Equal(t, []domain.DateKey{"2026-10-20", "2026-10-22"}, info.DueDates)

	_, err = s.Recurrence(context.Background(), "c2", day(2026, 10, 19), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = s.Recurrence(context.Background(), "zz", day(2026, 10, 19), 7)
	assert.ErrorIs(t, err, ports.ErrClientNotFound)
}

type stubGeocoder map[string]domain.Coordinates

func (g stubGeocoder) Geocode(_ context.Context, address string) (domain.Coordinates, error) {
	c, ok := g[address]
	if !ok {
		return domain.Coordinates{}, ports.ErrAddressNotFound
	}
	return c, nil
}

func TestGeocodeMissing(t *testing.T) {
	located := weeklyClient("a", 47.7, -117.4)
	known := domain.Client{ID: "b", Address: "14 S 1st St, Yakima, WA"}
	unknown := domain.Client{ID: "c", Address: "Atlantis"}
	repo := newFakeClients(located, known, unknown)

	geo := stubGeocoder{"14 S 1st St, Yakima, WA": {Lat: 46.6011, Lng: -120.5059}}

	report, err := GeocodeMissing(context.Background(), repo, geo, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, report.Located)
	assert.Equal(t, []string{"c"}, report.NotFound)
	assert.Equal(t, 1, report.Skipped)

	b, err := repo.GetClient(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, b.Located())
}
