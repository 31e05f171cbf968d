package services

import (
	"cmp"
	"field-visit-planner/internal/domain"
	"fmt"
	"slices"
)

// MaxRescheduleOptions caps how many ranked slots SuggestReschedule returns.
const MaxRescheduleOptions = 5

// SuggestReschedule ranks every team/position insertion of client on dateKey.
//
// The search is exhaustive over insertion points: for each route and each
// index 0..n the client's visit is inserted, the added drive time is measured
// (depot return excluded on both sides) and the hypothetical route is
// simulated. Options are stable-sorted by added minutes and the cheapest
// MaxRescheduleOptions are returned. A date missing from plan is treated as
// teamCount empty routes.
func SuggestReschedule(
	plan domain.Plan,
	dateKey domain.DateKey,
	depot domain.Depot,
	teamCount int,
	client domain.Client,
) ([]domain.RescheduleOption, error) {
	if teamCount < 1 {
		return nil, fmt.Errorf("suggest reschedule: team count %d: %w", teamCount, domain.ErrInvalidConfiguration)
	}

	visit, ok := domain.NewVisit(client)
	if !ok {
		return nil, fmt.Errorf("suggest reschedule: client %q: %w", client.ID, domain.ErrClientNotLocated)
	}

	routes, ok := plan[dateKey]
	if !ok {
		routes = domain.EmptyRoutes(depot, teamCount)
	}

	options := make([]domain.RescheduleOption, 0)
	for _, r := range routes {
		for i := 0; i <= len(r.Stops); i++ {
			options = append(options, evaluateInsertion(depot, r, i, visit))
		}
	}

	// Stable so equal costs keep enumeration order (team, then index).
	slices.SortStableFunc(options, func(a, b domain.RescheduleOption) int {
		return cmp.Compare(a.AddedMinutes, b.AddedMinutes)
	})

	if len(options) > MaxRescheduleOptions {
		options = options[:MaxRescheduleOptions]
	}
	return options, nil
}

// EvaluateInsertion builds the option for inserting client at index of the
// given team's route, without ranking. It is used to re-check a chosen slot
// against the latest routes before applying it.
func EvaluateInsertion(
	routes []domain.Route,
	depot domain.Depot,
	teamID int,
	index int,
	client domain.Client,
) (domain.RescheduleOption, error) {
	visit, ok := domain.NewVisit(client)
	if !ok {
		return domain.RescheduleOption{}, fmt.Errorf("evaluate insertion: client %q: %w", client.ID, domain.ErrClientNotLocated)
	}

	for _, r := range routes {
		if r.TeamID != teamID {
			continue
		}
		if index < 0 || index > len(r.Stops) {
			return domain.RescheduleOption{}, fmt.Errorf(
				"evaluate insertion: index %d outside 0..%d: %w",
				index, len(r.Stops), domain.ErrInvalidConfiguration,
			)
		}
		return evaluateInsertion(depot, r, index, visit), nil
	}

	return domain.RescheduleOption{}, fmt.Errorf("evaluate insertion: team %d: %w", teamID, domain.ErrUnknownTeam)
}

func evaluateInsertion(depot domain.Depot, r domain.Route, index int, visit domain.Visit) domain.RescheduleOption {
	current := visitsOf(r.Stops)

	candidate := make([]domain.Visit, 0, len(current)+1)
	candidate = append(candidate, current[:index]...)
	candidate = append(candidate, visit)
	candidate = append(candidate, current[index:]...)

	added := RouteDriveMinutes(depot, candidate, false) - RouteDriveMinutes(depot, current, false)
	timeline := SimulateTimeline(depot, candidate)

	return domain.RescheduleOption{
		TeamID:       r.TeamID,
		Index:        index,
		AddedMinutes: added,
		Feasible:     TimelineFeasible(timeline),
		Timeline:     timeline,
	}
}

// ApplyOption returns a new plan whose dateKey entry has the option's team
// route replaced by the option's timeline.
//
// Only the map and the touched date's route slice are copied; other dates
// are shared with the input plan, which is left unmodified.
func ApplyOption(
	plan domain.Plan,
	dateKey domain.DateKey,
	depot domain.Depot,
	teamCount int,
	option domain.RescheduleOption,
	opts PlanOptions,
) (domain.Plan, error) {
	routes, ok := plan[dateKey]
	if !ok {
		if teamCount < 1 {
			return nil, fmt.Errorf("apply option: team count %d: %w", teamCount, domain.ErrInvalidConfiguration)
		}
		routes = domain.EmptyRoutes(depot, teamCount)
	}

	updated, err := ApplyToDay(routes, depot, option, opts)
	if err != nil {
		return nil, fmt.Errorf("apply option: %s: %w", dateKey, err)
	}

	next := make(domain.Plan, len(plan)+1)
	for k, v := range plan {
		next[k] = v
	}
	next[dateKey] = updated

	return next, nil
}

// ApplyToDay returns a copy of routes with the option's team route replaced.
func ApplyToDay(routes []domain.Route, depot domain.Depot, option domain.RescheduleOption, opts PlanOptions) ([]domain.Route, error) {
	idx := slices.IndexFunc(routes, func(r domain.Route) bool { return r.TeamID == option.TeamID })
	if idx < 0 {
		return nil, fmt.Errorf("team %d: %w", option.TeamID, domain.ErrUnknownTeam)
	}

	out := slices.Clone(routes)
	stops := slices.Clone(option.Timeline)
	out[idx] = newRoute(option.TeamID, depot, stops, opts)

	return out, nil
}
