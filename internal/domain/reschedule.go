package domain

// RescheduleOption is one hypothetical insertion of a client into a team's
// route. Timeline is the fully simulated stop list, so applying the option
// needs no recomputation.
type RescheduleOption struct {
	TeamID       int     `json:"team_id"`
	Index        int     `json:"index"`
	AddedMinutes float64 `json:"added_minutes"`
	Feasible     bool    `json:"feasible"`
	Timeline     []Stop  `json:"timeline"`
}

// InsertedStop returns the stop the option places at Index.
func (o RescheduleOption) InsertedStop() (Stop, bool) {
	if o.Index < 0 || o.Index >= len(o.Timeline) {
		return Stop{}, false
	}
	return o.Timeline[o.Index], true
}
