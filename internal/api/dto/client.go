package dto

import (
	"field-visit-planner/internal/domain"
	"time"
)

type ClientResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Address       string              `json:"address"`
	Location      *domain.Coordinates `json:"location"`
	Frequency     domain.Frequency    `json:"frequency"`
	PreferredDays []string            `json:"preferred_days"`
	DurationMin   int                 `json:"duration_min"`
	WindowStart   string              `json:"window_start"`
	WindowEnd     string              `json:"window_end"`
}

type ListClientResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// NewClientResponse renders c with defaults applied, as the planner sees it.
func NewClientResponse(c domain.Client) ClientResponse {
	start, end := c.Window()
	days := make([]string, 0, len(c.Recurrence.PreferredDays))
	for _, d := range c.Recurrence.PreferredDays {
		days = append(days, d.String())
	}

	return ClientResponse{
		ID:            c.ID,
		Name:          c.Name,
		Address:       c.Address,
		Location:      c.Location,
		Frequency:     c.Recurrence.Frequency,
		PreferredDays: days,
		DurationMin:   c.ServiceMinutes(),
		WindowStart:   domain.MinutesToClock(float64(start)),
		WindowEnd:     domain.MinutesToClock(float64(end)),
	}
}

type RecurrenceResponse struct {
	ClientID   string           `json:"client_id"`
	RRule      string           `json:"rrule"`
	WeekAnchor time.Time        `json:"week_anchor"`
	DueDates   []domain.DateKey `json:"due_dates"`
}

type GeocodeRequest struct {
	Address string `json:"address"`
}

type GeocodeResponse struct {
	Address  string             `json:"address"`
	Location domain.Coordinates `json:"location"`
}
