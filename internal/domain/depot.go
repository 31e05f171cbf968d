package domain

// Depot is the single origin every team leaves from on a planning day.
// Address is display-only; planning uses Location.
type Depot struct {
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	Location Coordinates `json:"location"`
}
