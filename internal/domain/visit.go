package domain

// Visit is a concrete (client, date) obligation. It copies everything it
// needs from the client so later client edits never alter a built plan.
type Visit struct {
	ClientID    string      `json:"client_id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Location    Coordinates `json:"location"`
	DurationMin int         `json:"duration_min"`
	WindowStart int         `json:"window_start"`
	WindowEnd   int         `json:"window_end"`
}

// NewVisit snapshots a client into a Visit. It returns false when the client
// has no usable location.
func NewVisit(c Client) (Visit, bool) {
	if !c.Located() {
		return Visit{}, false
	}

	start, end := c.Window()
	return Visit{
		ClientID:    c.ID,
		Name:        c.Name,
		Address:     c.Address,
		Location:    *c.Location,
		DurationMin: c.ServiceMinutes(),
		WindowStart: start,
		WindowEnd:   end,
	}, true
}

// Stop is a Visit with simulated service times, in minutes since midnight.
type Stop struct {
	Visit
	PlannedStart float64 `json:"planned_start"`
	PlannedEnd   float64 `json:"planned_end"`
}

// WithinWindow applies the feasibility predicate: service starts no earlier
// than the window start and ends no later than the window end plus grace.
func (s Stop) WithinWindow() bool {
	return s.PlannedStart >= float64(s.WindowStart) &&
		s.PlannedEnd <= float64(s.WindowEnd+GraceMinutes)
}

// Coords returns the visit location; Stop inherits it.
func (v Visit) Coords() Coordinates { return v.Location }
