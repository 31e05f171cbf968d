package domain

import "time"

// Frequency is how often a client expects a visit.
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// Known reports whether f is one of the supported frequencies.
func (f Frequency) Known() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// Recurrence describes when a client is due. An empty PreferredDays means any
// weekday is eligible.
type Recurrence struct {
	Frequency     Frequency      `json:"frequency"`
	PreferredDays []time.Weekday `json:"preferred_days"`
}

// Prefers reports whether the weekday passes the preferred-day filter.
func (r Recurrence) Prefers(day time.Weekday) bool {
	if len(r.PreferredDays) == 0 {
		return true
	}
	for _, d := range r.PreferredDays {
		if d == day {
			return true
		}
	}
	return false
}

// Client is a recurring service location. Location stays nil until the
// address has been geocoded; such clients never produce visits.
type Client struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Location    *Coordinates `json:"location,omitempty"`
	Recurrence  Recurrence   `json:"recurrence"`
	DurationMin int          `json:"duration_min"`
	WindowStart string       `json:"window_start"`
	WindowEnd   string       `json:"window_end"`
}

// Located reports whether the client carries usable coordinates.
func (c Client) Located() bool {
	return c.Location != nil && c.Location.Valid()
}

// ServiceMinutes returns the service duration with the default applied.
func (c Client) ServiceMinutes() int {
	if c.DurationMin <= 0 {
		return DefaultDurationMinutes
	}
	return c.DurationMin
}

// Window returns the client's time window in minutes since midnight. Each
// bound falls back to its default independently when it cannot be parsed.
func (c Client) Window() (start, end int) {
	start, end = DefaultWindowStart, DefaultWindowEnd
	if m, err := ParseClock(c.WindowStart); err == nil {
		start = m
	}
	if m, err := ParseClock(c.WindowEnd); err == nil {
		end = m
	}
	return start, end
}
