package store

import (
	"field-visit-planner/internal/domain"
	"slices"
)

// cloneRoutes copies routes and their stop slices. Stops hold no pointers,
// so this is a full copy.
func cloneRoutes(routes []domain.Route) []domain.Route {
	if routes == nil {
		return nil
	}
	out := make([]domain.Route, len(routes))
	for i, r := range routes {
		r.Stops = slices.Clone(r.Stops)
		if r.Stops == nil {
			r.Stops = []domain.Stop{}
		}
		out[i] = r
	}
	return out
}

func cloneSchedule(s *domain.Schedule) *domain.Schedule {
	cp := *s
	cp.Plan = make(domain.Plan, len(s.Plan))
	for k, v := range s.Plan {
		cp.Plan[k] = cloneRoutes(v)
	}
	cp.Warnings = slices.Clone(s.Warnings)
	return &cp
}
