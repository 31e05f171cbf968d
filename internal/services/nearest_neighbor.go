package services

import (
	"field-visit-planner/internal/domain"
	"math"
)

// located is anything with a position on the map; Visit and Stop both are.
type located interface {
	Coords() domain.Coordinates
}

// Order one team's visits using a greedy nearest-neighbor algorithm.
//
// Starting at the depot, the closest remaining visit by estimated drive time
// is appended and becomes the new position. The first candidate found wins a
// tie. The result is a permutation of the input; the tour never backtracks and
// is not optimal.
func NearestNeighborOrder(depot domain.Depot, visits []domain.Visit) []domain.Visit {
	remaining := make([]domain.Visit, len(visits))
	copy(remaining, visits)

	ordered := make([]domain.Visit, 0, len(visits))
	current := depot.Location

	for len(remaining) > 0 {
		bestIdx := 0
		bestCost := math.Inf(1)

		// Select next stop by minimum travel time (greedy step).
		for i, v := range remaining {
			if cost := TravelMinutes(current, v.Location); cost < bestCost {
				bestCost = cost
				bestIdx = i
			}
		}

		next := remaining[bestIdx]
		ordered = append(ordered, next)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		current = next.Location
	}

	return ordered
}

// RouteDriveMinutes sums estimated drive time from the depot through stops in
// order, optionally adding the final leg back to the depot.
func RouteDriveMinutes[T located](depot domain.Depot, stops []T, includeReturn bool) float64 {
	total := 0.0
	current := depot.Location
	for _, s := range stops {
		total += TravelMinutes(current, s.Coords())
		current = s.Coords()
	}

	// Optionally include return leg to the depot.
	if includeReturn && len(stops) > 0 {
		total += TravelMinutes(current, depot.Location)
	}

	return total
}
