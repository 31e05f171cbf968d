package domain

import "time"

// Warning reports a client that could not be planned on a date.
type Warning struct {
	Date     DateKey `json:"date"`
	ClientID string  `json:"client_id"`
	Reason   string  `json:"reason"`
}

// Schedule is a stored planning run: the generated Plan plus the parameters
// needed to reschedule against it later.
type Schedule struct {
	ID            string    `json:"id"`
	Depot         Depot     `json:"depot"`
	TeamCount     int       `json:"team_count"`
	StartDate     DateKey   `json:"start_date"`
	HorizonDays   int       `json:"horizon_days"`
	WeekAnchor    time.Time `json:"week_anchor"`
	IncludeReturn bool      `json:"include_return"`
	Plan          Plan      `json:"plan"`
	Warnings      []Warning `json:"warnings"`
	CreatedAt     time.Time `json:"created_at"`
}

// Day returns the routes for key, or teamCount empty routes when the date was
// never planned.
func (s *Schedule) Day(key DateKey) []Route {
	if routes, ok := s.Plan[key]; ok {
		return routes
	}
	return EmptyRoutes(s.Depot, s.TeamCount)
}
