package domain

import (
	"fmt"
	"slices"
	"time"
)

// DateKey identifies one calendar day ("2006-01-02"), independent of time of day.
type DateKey string

const dateKeyLayout = "2006-01-02"

// DateKeyOf returns the key of the calendar day t falls on in its own location.
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format(dateKeyLayout))
}

// ParseDateKey validates s and returns it as a DateKey.
func ParseDateKey(s string) (DateKey, error) {
	if _, err := time.Parse(dateKeyLayout, s); err != nil {
		return "", fmt.Errorf("parse date key %q: %w", s, err)
	}
	return DateKey(s), nil
}

// Time returns midnight UTC of the keyed day.
func (k DateKey) Time() (time.Time, error) {
	t, err := time.Parse(dateKeyLayout, string(k))
	if err != nil {
		return time.Time{}, fmt.Errorf("date key %q: %w", k, err)
	}
	return t, nil
}

// Represents one team's ordered stops for one date.
// Stops are in visiting order. TotalMinutes is drive plus service time.
type Route struct {
	TeamID       int     `json:"team_id"`
	Depot        Depot   `json:"depot"`
	Stops        []Stop  `json:"stops"`
	TotalMinutes float64 `json:"total_minutes"`
}

// EmptyRoutes returns teamCount routes with no stops, team ids 1..teamCount.
func EmptyRoutes(depot Depot, teamCount int) []Route {
	routes := make([]Route, 0, teamCount)
	for i := 0; i < teamCount; i++ {
		routes = append(routes, Route{TeamID: i + 1, Depot: depot, Stops: []Stop{}})
	}
	return routes
}

// Plan maps each planned date to its routes, one per team in team order.
type Plan map[DateKey][]Route

// Dates returns the plan's keys in calendar order.
func (p Plan) Dates() []DateKey {
	keys := make([]DateKey, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	// "2006-01-02" sorts lexically in calendar order.
	slices.Sort(keys)
	return keys
}
