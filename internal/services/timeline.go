package services

import (
	"field-visit-planner/internal/domain"
	"math"
)

// SimulateTimeline walks visits in order and assigns planned service times.
//
// The clock starts at 08:00 at the depot. A team arriving before a window
// opens waits for it; there is no early service. Window ends are not enforced
// here: feasibility is judged separately by TimelineFeasible.
func SimulateTimeline(depot domain.Depot, visits []domain.Visit) []domain.Stop {
	stops := make([]domain.Stop, 0, len(visits))
	clock := float64(domain.DayStartMinutes)
	current := depot.Location

	for _, v := range visits {
		arrival := clock + TravelMinutes(current, v.Location)
		start := math.Max(arrival, float64(v.WindowStart))
		end := start + float64(v.DurationMin)

		stops = append(stops, domain.Stop{Visit: v, PlannedStart: start, PlannedEnd: end})

		clock = end
		current = v.Location
	}

	return stops
}

// TimelineFeasible reports whether every stop starts inside its window and
// ends before the window end plus the grace period.
func TimelineFeasible(stops []domain.Stop) bool {
	for _, s := range stops {
		if !s.WithinWindow() {
			return false
		}
	}
	return true
}

// visitsOf strips simulated times so a stop list can be re-simulated.
func visitsOf(stops []domain.Stop) []domain.Visit {
	out := make([]domain.Visit, 0, len(stops))
	for _, s := range stops {
		out = append(out, s.Visit)
	}
	return out
}
