package dto

import (
	"field-visit-planner/internal/domain"
	"time"
)

type GenerateScheduleRequest struct {
	// StartDate is "YYYY-MM-DD"; empty means today (UTC).
	StartDate     string `json:"start_date"`
	Days          int    `json:"days"`
	TeamCount     int    `json:"team_count"`
	IncludeReturn *bool  `json:"include_return"`
}

type StopResponse struct {
	ClientID     string  `json:"client_id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	DurationMin  int     `json:"duration_min"`
	PlannedStart float64 `json:"planned_start"`
	PlannedEnd   float64 `json:"planned_end"`
	StartClock   string  `json:"start_clock"`
	EndClock     string  `json:"end_clock"`
	WindowStart  string  `json:"window_start"`
	WindowEnd    string  `json:"window_end"`
	WithinWindow bool    `json:"within_window"`
}

type RouteResponse struct {
	TeamID       int            `json:"team_id"`
	TotalMinutes float64        `json:"total_minutes"`
	Stops        []StopResponse `json:"stops"`
}

type DayResponse struct {
	Date   domain.DateKey  `json:"date"`
	Routes []RouteResponse `json:"routes"`
}

type ScheduleResponse struct {
	ID            string           `json:"id"`
	Depot         domain.Depot     `json:"depot"`
	TeamCount     int              `json:"team_count"`
	StartDate     domain.DateKey   `json:"start_date"`
	HorizonDays   int              `json:"horizon_days"`
	WeekAnchor    time.Time        `json:"week_anchor"`
	IncludeReturn bool             `json:"include_return"`
	CreatedAt     time.Time        `json:"created_at"`
	Warnings      []domain.Warning `json:"warnings"`
	Days          []DayResponse    `json:"days"`
}

func NewStopResponse(s domain.Stop) StopResponse {
	return StopResponse{
		ClientID:     s.ClientID,
		Name:         s.Name,
		Address:      s.Address,
		Lat:          s.Location.Lat,
		Lng:          s.Location.Lng,
		DurationMin:  s.DurationMin,
		PlannedStart: s.PlannedStart,
		PlannedEnd:   s.PlannedEnd,
		StartClock:   domain.MinutesToClock(s.PlannedStart),
		EndClock:     domain.MinutesToClock(s.PlannedEnd),
		WindowStart:  domain.MinutesToClock(float64(s.WindowStart)),
		WindowEnd:    domain.MinutesToClock(float64(s.WindowEnd)),
		WithinWindow: s.WithinWindow(),
	}
}

func NewStopResponses(stops []domain.Stop) []StopResponse {
	out := make([]StopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, NewStopResponse(s))
	}
	return out
}

func NewDayResponse(date domain.DateKey, routes []domain.Route) DayResponse {
	day := DayResponse{Date: date, Routes: make([]RouteResponse, 0, len(routes))}
	for _, r := range routes {
		day.Routes = append(day.Routes, RouteResponse{
			TeamID:       r.TeamID,
			TotalMinutes: r.TotalMinutes,
			Stops:        NewStopResponses(r.Stops),
		})
	}
	return day
}

func NewScheduleResponse(s *domain.Schedule) ScheduleResponse {
	warnings := s.Warnings
	if warnings == nil {
		warnings = []domain.Warning{}
	}

	res := ScheduleResponse{
		ID:            s.ID,
		Depot:         s.Depot,
		TeamCount:     s.TeamCount,
		StartDate:     s.StartDate,
		HorizonDays:   s.HorizonDays,
		WeekAnchor:    s.WeekAnchor,
		IncludeReturn: s.IncludeReturn,
		CreatedAt:     s.CreatedAt,
		Warnings:      warnings,
		Days:          make([]DayResponse, 0, len(s.Plan)),
	}
	for _, date := range s.Plan.Dates() {
		res.Days = append(res.Days, NewDayResponse(date, s.Plan[date]))
	}
	return res
}
