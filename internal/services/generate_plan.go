package services

import (
	"context"
	"field-visit-planner/internal/domain"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds how many dates are planned at once.
const DefaultParallelism = 4

type GeneratePlanRequest struct {
	Depot         domain.Depot
	StartDate     time.Time
	HorizonDays   int
	TeamCount     int
	IncludeReturn bool
	Parallelism   int
}

type GeneratePlanResult struct {
	Plan       domain.Plan
	WeekAnchor time.Time
	Warnings   []domain.Warning
	VisitCount int
}

type dayResult struct {
	key    domain.DateKey
	routes []domain.Route
	set    VisitSet
}

// GeneratePlan plans every date of the horizon independently.
//
// Dates have no ordering dependency on each other, so they are planned in
// parallel; results are assembled in calendar order and match a sequential
// run exactly. Clients that were due but unlocated are reported as warnings.
func GeneratePlan(ctx context.Context, req GeneratePlanRequest, clients []domain.Client) (*GeneratePlanResult, error) {
	if req.TeamCount < 1 {
		return nil, fmt.Errorf("generate plan: team count %d: %w", req.TeamCount, domain.ErrInvalidConfiguration)
	}
	if req.HorizonDays < 1 {
		return nil, fmt.Errorf("generate plan: horizon %d days: %w", req.HorizonDays, domain.ErrInvalidConfiguration)
	}

	limit := req.Parallelism
	if limit < 1 {
		limit = DefaultParallelism
	}

	start := civilDate(req.StartDate)
	anchor := WeekAnchor(start)
	opts := PlanOptions{IncludeReturn: req.IncludeReturn}

	days := make([]dayResult, req.HorizonDays)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := 0; i < req.HorizonDays; i++ {
		date := start.AddDate(0, 0, i)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			set := BuildVisits(date, clients, anchor)
			routes, err := PlanDay(req.Depot, set.Visits, req.TeamCount, opts)
			if err != nil {
				return fmt.Errorf("generate plan: %s: %w", set.Date, err)
			}

			// Each goroutine owns its slot; no locking needed.
			days[i] = dayResult{key: set.Date, routes: routes, set: set}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &GeneratePlanResult{
		Plan:       make(domain.Plan, len(days)),
		WeekAnchor: anchor,
		Warnings:   []domain.Warning{},
	}
	for _, d := range days {
		res.Plan[d.key] = d.routes
		res.VisitCount += len(d.set.Visits)
		for _, id := range d.set.Unlocated {
			res.Warnings = append(res.Warnings, domain.Warning{
				Date:     d.key,
				ClientID: id,
				Reason:   "client is due but has no location",
			})
		}
	}

	return res, nil
}
