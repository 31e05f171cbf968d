package dto

import "field-visit-planner/internal/domain"

type SuggestRequest struct {
	ClientID string `json:"client_id"`
	Date     string `json:"date"`
}

type ApplyRequest struct {
	ClientID string `json:"client_id"`
	Date     string `json:"date"`
	TeamID   int    `json:"team_id"`
	Index    int    `json:"index"`
}

type OptionResponse struct {
	TeamID       int     `json:"team_id"`
	Index        int     `json:"index"`
	AddedMinutes float64 `json:"added_minutes"`
	Feasible     bool    `json:"feasible"`
	// InsertedStart is the moved client's planned start ("HH:MM").
	InsertedStart string         `json:"inserted_start"`
	Timeline      []StopResponse `json:"timeline"`
}

type SuggestResponse struct {
	ClientID string           `json:"client_id"`
	Date     domain.DateKey   `json:"date"`
	Options  []OptionResponse `json:"options"`
}

type ApplyResponse struct {
	ClientID string         `json:"client_id"`
	Option   OptionResponse `json:"option"`
	Day      DayResponse    `json:"day"`
}

func NewOptionResponse(o domain.RescheduleOption) OptionResponse {
	res := OptionResponse{
		TeamID:       o.TeamID,
		Index:        o.Index,
		AddedMinutes: o.AddedMinutes,
		Feasible:     o.Feasible,
		Timeline:     NewStopResponses(o.Timeline),
	}
	if s, ok := o.InsertedStop(); ok {
		res.InsertedStart = domain.MinutesToClock(s.PlannedStart)
	}
	return res
}
