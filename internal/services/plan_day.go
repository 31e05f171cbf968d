package services

import (
	"field-visit-planner/internal/domain"
	"fmt"
)

// PlanOptions tunes how route totals are reported.
type PlanOptions struct {
	// IncludeReturn adds the final leg back to the depot to TotalMinutes.
	IncludeReturn bool
}

// Plan one day's visits into teamCount routes.
//
// Visits are partitioned into angular sectors, each sector is ordered by
// nearest neighbor and then simulated against the visits' time windows.
// An empty visit set yields teamCount empty routes.
func PlanDay(depot domain.Depot, visits []domain.Visit, teamCount int, opts PlanOptions) ([]domain.Route, error) {
	clusters, err := PartitionByAngle(depot, visits, teamCount)
	if err != nil {
		return nil, fmt.Errorf("plan day: %w", err)
	}

	routes := make([]domain.Route, 0, teamCount)
	for i, cluster := range clusters {
		ordered := NearestNeighborOrder(depot, cluster)
		stops := SimulateTimeline(depot, ordered)
		routes = append(routes, newRoute(i+1, depot, stops, opts))
	}

	return routes, nil
}

func newRoute(teamID int, depot domain.Depot, stops []domain.Stop, opts PlanOptions) domain.Route {
	if stops == nil {
		stops = []domain.Stop{}
	}
	return domain.Route{
		TeamID:       teamID,
		Depot:        depot,
		Stops:        stops,
		TotalMinutes: RouteTotalMinutes(depot, stops, opts.IncludeReturn),
	}
}

// RouteTotalMinutes is drive time plus service time for a simulated route.
func RouteTotalMinutes(depot domain.Depot, stops []domain.Stop, includeReturn bool) float64 {
	total := RouteDriveMinutes(depot, stops, includeReturn)
	for _, s := range stops {
		total += float64(s.DurationMin)
	}
	return total
}
