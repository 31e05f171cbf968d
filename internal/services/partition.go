package services

import (
	"cmp"
	"field-visit-planner/internal/domain"
	"fmt"
	"math"
	"slices"
)

type angledVisit struct {
	visit domain.Visit
	angle float64
}

// PartitionByAngle splits visits into teamCount groups, one per team.
//
// Visits are sorted by their planar angle around the depot and dealt
// round-robin, so group sizes differ by at most one. The angle is a flat-earth
// atan2 over raw degree deltas, not a geodesic bearing. When there are more
// teams than visits the trailing groups are empty.
func PartitionByAngle(depot domain.Depot, visits []domain.Visit, teamCount int) ([][]domain.Visit, error) {
	if teamCount < 1 {
		return nil, fmt.Errorf("partition visits: team count %d: %w", teamCount, domain.ErrInvalidConfiguration)
	}

	sorted := make([]angledVisit, 0, len(visits))
	for _, v := range visits {
		sorted = append(sorted, angledVisit{visit: v, angle: angleAround(depot.Location, v.Location)})
	}

	// Stable so equal angles keep their input order.
	slices.SortStableFunc(sorted, func(a, b angledVisit) int {
		return cmp.Compare(a.angle, b.angle)
	})

	groups := make([][]domain.Visit, teamCount)
	for i := range groups {
		groups[i] = []domain.Visit{}
	}
	for i, av := range sorted {
		groups[i%teamCount] = append(groups[i%teamCount], av.visit)
	}

	return groups, nil
}

func angleAround(depot, p domain.Coordinates) float64 {
	return math.Atan2(p.Lat-depot.Lat, p.Lng-depot.Lng)
}
