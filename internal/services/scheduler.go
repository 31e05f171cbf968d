package services

import (
	"context"
	"errors"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/platform/metrics"
	"field-visit-planner/internal/platform/obs"
	"field-visit-planner/internal/ports"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Limits caps request sizes. Zero values mean no cap.
type Limits struct {
	MaxTeamCount   int
	MaxHorizonDays int
	Parallelism    int
}

// Scheduler is the application service around the planning core: it loads
// clients, stores generated schedules and applies reschedules to them.
type Scheduler struct {
	Clients ports.ClientRepository
	Store   ports.ScheduleStore
	IDs     ports.IDGenerator
	Metrics metrics.Recorder
	Log     zerolog.Logger
	Depot   domain.Depot
	Limits  Limits

	// Now is overridable for tests.
	Now func() time.Time
}

type GenerateRequest struct {
	StartDate     time.Time
	Days          int
	TeamCount     int
	IncludeReturn bool
}

// ApplyResult is the stored day after an apply plus the option that produced it.
type ApplyResult struct {
	Date   domain.DateKey
	Option domain.RescheduleOption
	Routes []domain.Route
}

// RecurrenceInfo describes when a client is due.
type RecurrenceInfo struct {
	ClientID   string
	Rule       string
	WeekAnchor time.Time
	DueDates   []domain.DateKey
}

func (s *Scheduler) recorder() metrics.Recorder {
	if s.Metrics == nil {
		return metrics.Nop{}
	}
	return s.Metrics
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Scheduler) validate(teamCount, days int) error {
	if limit := s.Limits.MaxTeamCount; limit > 0 && teamCount > limit {
		return fmt.Errorf("team count %d exceeds limit %d: %w", teamCount, limit, domain.ErrInvalidConfiguration)
	}
	if limit := s.Limits.MaxHorizonDays; limit > 0 && days > limit {
		return fmt.Errorf("horizon %d days exceeds limit %d: %w", days, limit, domain.ErrInvalidConfiguration)
	}
	return nil
}

// Generate plans the horizon for every stored client and saves the result.
func (s *Scheduler) Generate(ctx context.Context, req GenerateRequest) (_ *domain.Schedule, err error) {
	defer obs.Time(ctx, s.Log, "scheduler.Generate")(&err)

	if err := s.validate(req.TeamCount, req.Days); err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}

	clients, err := s.Clients.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}

	res, err := GeneratePlan(ctx, GeneratePlanRequest{
		Depot:         s.Depot,
		StartDate:     req.StartDate,
		HorizonDays:   req.Days,
		TeamCount:     req.TeamCount,
		IncludeReturn: req.IncludeReturn,
		Parallelism:   s.Limits.Parallelism,
	}, clients)
	if err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}

	for _, w := range res.Warnings {
		s.Log.Warn().Str("date", string(w.Date)).Str("client_id", w.ClientID).Msg(w.Reason)
	}

	sched := &domain.Schedule{
		ID:            s.IDs.NewID(),
		Depot:         s.Depot,
		TeamCount:     req.TeamCount,
		StartDate:     domain.DateKeyOf(civilDate(req.StartDate)),
		HorizonDays:   req.Days,
		WeekAnchor:    res.WeekAnchor,
		IncludeReturn: req.IncludeReturn,
		Plan:          res.Plan,
		Warnings:      res.Warnings,
		CreatedAt:     s.now(),
	}

	if err := s.Store.Save(ctx, sched); err != nil {
		return nil, fmt.Errorf("generate schedule: save: %w", err)
	}

	s.recorder().ScheduleGenerated(res.VisitCount, len(res.Warnings))
	s.Log.Info().
		Str("schedule_id", sched.ID).
		Str("start_date", string(sched.StartDate)).
		Int("days", req.Days).
		Int("teams", req.TeamCount).
		Int("visits", res.VisitCount).
		Msg("schedule generated")

	return sched, nil
}

func (s *Scheduler) Get(ctx context.Context, id string) (*domain.Schedule, error) {
	sched, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return sched, nil
}

// Day returns one date of a schedule; unplanned dates read as empty routes.
func (s *Scheduler) Day(ctx context.Context, id string, date domain.DateKey) ([]domain.Route, error) {
	sched, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sched.Day(date), nil
}

// Suggest ranks insertion slots for clientID on date in the stored schedule.
func (s *Scheduler) Suggest(ctx context.Context, id, clientID string, date domain.DateKey) (_ []domain.RescheduleOption, err error) {
	defer obs.Time(ctx, s.Log, "scheduler.Suggest")(&err)

	sched, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	client, err := s.Clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("suggest reschedule: %w", err)
	}

	options, err := SuggestReschedule(sched.Plan, date, sched.Depot, sched.TeamCount, client)
	if err != nil {
		return nil, fmt.Errorf("suggest reschedule: %w", err)
	}

	feasible := 0
	for _, o := range options {
		if o.Feasible {
			feasible++
		}
	}
	s.recorder().SuggestionsRanked(feasible, len(options)-feasible)

	return options, nil
}

// Apply inserts clientID at (teamID, index) on date and stores the new day.
//
// The insertion is evaluated against the day as currently stored, inside the
// store's update, so the saved timeline and its feasibility always match
// what is persisted even if the day changed since the options were listed.
func (s *Scheduler) Apply(
	ctx context.Context,
	id, clientID string,
	date domain.DateKey,
	teamID, index int,
) (_ *ApplyResult, err error) {
	defer obs.Time(ctx, s.Log, "scheduler.Apply")(&err)

	sched, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	client, err := s.Clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("apply reschedule: %w", err)
	}

	opts := PlanOptions{IncludeReturn: sched.IncludeReturn}

	var chosen domain.RescheduleOption
	routes, err := s.Store.UpdateDay(ctx, id, date, func(current []domain.Route) ([]domain.Route, error) {
		opt, err := EvaluateInsertion(current, sched.Depot, teamID, index, client)
		if err != nil {
			return nil, err
		}
		updated, err := ApplyToDay(current, sched.Depot, opt, opts)
		if err != nil {
			return nil, err
		}
		chosen = opt
		return updated, nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply reschedule: %w", err)
	}

	s.recorder().RescheduleApplied()
	s.Log.Info().
		Str("schedule_id", id).
		Str("client_id", clientID).
		Str("date", string(date)).
		Int("team_id", teamID).
		Int("index", index).
		Bool("feasible", chosen.Feasible).
		Msg("reschedule applied")

	return &ApplyResult{Date: date, Option: chosen, Routes: routes}, nil
}

// Summary reports per-date workload statistics for a stored schedule.
func (s *Scheduler) Summary(ctx context.Context, id string) ([]DaySummary, error) {
	sched, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return SummarizePlan(sched.Plan), nil
}

// Recurrence renders clientID's rule and its due dates in [from, from+days).
func (s *Scheduler) Recurrence(ctx context.Context, clientID string, from time.Time, days int) (*RecurrenceInfo, error) {
	if days < 1 {
		return nil, fmt.Errorf("client recurrence: %d days: %w", days, domain.ErrInvalidConfiguration)
	}
	if err := s.validate(0, days); err != nil {
		return nil, fmt.Errorf("client recurrence: %w", err)
	}

	client, err := s.Clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("client recurrence: %w", err)
	}

	anchor := WeekAnchor(from)
	rule, err := RecurrenceRule(client, anchor)
	if err != nil && !errors.Is(err, domain.ErrInvalidConfiguration) {
		return nil, err
	}

	return &RecurrenceInfo{
		ClientID:   client.ID,
		Rule:       rule,
		WeekAnchor: anchor,
		DueDates:   DueDates(client, anchor, from, days),
	}, nil
}
