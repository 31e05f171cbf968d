package services

import (
	"field-visit-planner/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDate = domain.DateKey("2026-10-20")

// meridianPlan builds a one-team plan with stops due north of the depot.
func meridianPlan(t *testing.T, offsets ...float64) domain.Plan {
	t.Helper()

	d := spokaneDepot.Location
	visits := make([]domain.Visit, 0, len(offsets))
	for i, off := range offsets {
		visits = append(visits, mustVisit(weeklyClient(string(rune('a'+i)), d.Lat+off, d.Lng)))
	}

	routes, err := PlanDay(spokaneDepot, visits, 1, PlanOptions{})
	require.NoError(t, err)
	return domain.Plan{testDate: routes}
}

func TestSuggestRescheduleBestSlotFirst(t *testing.T) {
	plan := meridianPlan(t, 0.1, 0.2)
	d := spokaneDepot.Location
	between := weeklyClient("x", d.Lat+0.15, d.Lng)

	options, err := SuggestReschedule(plan, testDate, spokaneDepot, 1, between)
	require.NoError(t, err)
	require.Len(t, options, 3)

	assert.Equal(t, 1, options[0].TeamID)
	assert.Equal(t, 1, options[0].Index)
	assert.InDelta(t, 0, options[0].AddedMinutes, 1e-6)

	inserted, ok := options[0].InsertedStop()
	require.True(t, ok)
	assert.Equal(t, "x", inserted.ClientID)
	assert.Len(t, options[0].Timeline, 3)
}

func TestSuggestRescheduleTopFiveSorted(t *testing.T) {
	d := spokaneDepot.Location
	visits := []domain.Visit{
		mustVisit(weeklyClient("n1", d.Lat+0.1, d.Lng)),
		mustVisit(weeklyClient("n2", d.Lat+0.2, d.Lng)),
		mustVisit(weeklyClient("n3", d.Lat+0.3, d.Lng)),
		mustVisit(weeklyClient("s1", d.Lat-0.1, d.Lng+0.01)),
		mustVisit(weeklyClient("s2", d.Lat-0.2, d.Lng+0.01)),
		mustVisit(weeklyClient("s3", d.Lat-0.3, d.Lng+0.01)),
	}
	routes, err := PlanDay(spokaneDepot, visits, 2, PlanOptions{})
	require.NoError(t, err)
	plan := domain.Plan{testDate: routes}

	options, err := SuggestReschedule(plan, testDate, spokaneDepot, 2, weeklyClient("x", d.Lat+0.05, d.Lng+0.05))
	require.NoError(t, err)
	require.Len(t, options, MaxRescheduleOptions)

	for i := 1; i < len(options); i++ {
		assert.LessOrEqual(t, options[i-1].AddedMinutes, options[i].AddedMinutes)
	}

	// Each timeline is self-consistent: re-simulating it reproduces the flag.
	for _, o := range options {
		resimulated := SimulateTimeline(spokaneDepot, visitsOf(o.Timeline))
		assert.Equal(t, o.Feasible, TimelineFeasible(resimulated), "team %d index %d", o.TeamID, o.Index)
		assert.Equal(t, o.Timeline, resimulated)
	}
}

func TestSuggestRescheduleMissingDateUsesEmptyRoutes(t *testing.T) {
	d := spokaneDepot.Location
	options, err := SuggestReschedule(domain.Plan{}, testDate, spokaneDepot, 2, weeklyClient("x", d.Lat+0.1, d.Lng))
	require.NoError(t, err)
	require.Len(t, options, 2)

	// Equal cost on identical empty routes keeps team order.
	assert.Equal(t, 1, options[0].TeamID)
	assert.Equal(t, 2, options[1].TeamID)
	assert.Equal(t, options[0].AddedMinutes, options[1].AddedMinutes)
	assert.True(t, options[0].Feasible)
}

func TestSuggestRescheduleErrors(t *testing.T) {
	unlocated := weeklyClient("x", 0, 0)
	unlocated.Location = nil

	_, err := SuggestReschedule(domain.Plan{}, testDate, spokaneDepot, 1, unlocated)
	assert.ErrorIs(t, err, domain.ErrClientNotLocated)

	_, err = SuggestReschedule(domain.Plan{}, testDate, spokaneDepot, 0, weeklyClient("x", 47, -117))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSuggestRescheduleFlagsInfeasibleSlots(t *testing.T) {
	d := spokaneDepot.Location
	late := weeklyClient("late", d.Lat+0.01, d.Lng)
	late.WindowStart = "06:00"
	late.WindowEnd = "07:00"

	options, err := SuggestReschedule(domain.Plan{}, testDate, spokaneDepot, 1, late)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.False(t, options[0].Feasible)
}

func TestApplyOptionCopyOnWrite(t *testing.T) {
	plan := meridianPlan(t, 0.1, 0.2)
	other := domain.DateKey("2026-10-21")
	plan[other] = domain.EmptyRoutes(spokaneDepot, 1)

	d := spokaneDepot.Location
	options, err := SuggestReschedule(plan, testDate, spokaneDepot, 1, weeklyClient("x", d.Lat+0.15, d.Lng))
	require.NoError(t, err)

	next, err := ApplyOption(plan, testDate, spokaneDepot, 1, options[0], PlanOptions{})
	require.NoError(t, err)

	assert.Len(t, plan[testDate][0].Stops, 2, "input plan must be unchanged")
	require.Len(t, next[testDate][0].Stops, 3)
	assert.Equal(t, "x", next[testDate][0].Stops[1].ClientID)

	route := next[testDate][0]
	assert.InDelta(t, RouteTotalMinutes(spokaneDepot, route.Stops, false), route.TotalMinutes, 1e-9)
	assert.Equal(t, options[0].Feasible, TimelineFeasible(route.Stops))

	assert.Same(t, &plan[other][0], &next[other][0], "untouched dates are shared")
}

func TestApplyOptionMissingDate(t *testing.T) {
	d := spokaneDepot.Location
	options, err := SuggestReschedule(domain.Plan{}, testDate, spokaneDepot, 2, weeklyClient("x", d.Lat+0.1, d.Lng))
	require.NoError(t, err)

	next, err := ApplyOption(domain.Plan{}, testDate, spokaneDepot, 2, options[1], PlanOptions{})
	require.NoError(t, err)
	require.Len(t, next[testDate], 2)
	assert.Empty(t, next[testDate][0].Stops)
	assert.Len(t, next[testDate][1].Stops, 1)
}

func TestApplyOptionUnknownTeam(t *testing.T) {
	plan := meridianPlan(t, 0.1)
	_, err := ApplyOption(plan, testDate, spokaneDepot, 1, domain.RescheduleOption{TeamID: 9}, PlanOptions{})
	assert.ErrorIs(t, err, domain.ErrUnknownTeam)
}

func TestEvaluateInsertion(t *testing.T) {
	plan := meridianPlan(t, 0.1, 0.2)
	d := spokaneDepot.Location
	x := weeklyClient("x", d.Lat+0.15, d.Lng)

	opt, err := EvaluateInsertion(plan[testDate], spokaneDepot, 1, 1, x)
	require.NoError(t, err)
	assert.Equal(t, 1, opt.Index)
	assert.Len(t, opt.Timeline, 3)

	_, err = EvaluateInsertion(plan[testDate], spokaneDepot, 1, 5, x)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = EvaluateInsertion(plan[testDate], spokaneDepot, 2, 0, x)
	assert.ErrorIs(t, err, domain.ErrUnknownTeam)
}
