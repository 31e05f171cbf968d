package services

import (
	"field-visit-planner/internal/domain"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DaySummary describes team workload balance on one planned date.
type DaySummary struct {
	Date            domain.DateKey `json:"date"`
	Visits          int            `json:"visits"`
	TeamMinutes     []float64      `json:"team_minutes"`
	MeanMinutes     float64        `json:"mean_minutes"`
	StdDevMinutes   float64        `json:"stddev_minutes"`
	LateStops       int            `json:"late_stops"`
	LastServiceEnds float64        `json:"last_service_ends"`
}

// SummarizePlan reports per-date workload statistics in calendar order.
func SummarizePlan(plan domain.Plan) []DaySummary {
	out := make([]DaySummary, 0, len(plan))
	for _, key := range plan.Dates() {
		out = append(out, summarizeDay(key, plan[key]))
	}
	return out
}

func summarizeDay(key domain.DateKey, routes []domain.Route) DaySummary {
	s := DaySummary{Date: key, TeamMinutes: make([]float64, 0, len(routes))}

	for _, r := range routes {
		s.TeamMinutes = append(s.TeamMinutes, r.TotalMinutes)
		s.Visits += len(r.Stops)
		for _, st := range r.Stops {
			if !st.WithinWindow() {
				s.LateStops++
			}
			s.LastServiceEnds = math.Max(s.LastServiceEnds, st.PlannedEnd)
		}
	}

	switch len(s.TeamMinutes) {
	case 0:
	case 1:
		s.MeanMinutes = s.TeamMinutes[0]
	default:
		mean, variance := stat.MeanVariance(s.TeamMinutes, nil)
		s.MeanMinutes = mean
		s.StdDevMinutes = math.Sqrt(variance)
	}

	return s
}
