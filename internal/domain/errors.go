package domain

import "errors"

var (
	// ErrInvalidConfiguration marks a caller precondition violation such as a
	// team count below one or an empty planning horizon.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrClientNotLocated is returned when an operation needs a client's
	// coordinates and the client has not been geocoded.
	ErrClientNotLocated = errors.New("client has no location")

	// ErrUnknownTeam is returned when a reschedule option names a team that
	// does not exist on the target date.
	ErrUnknownTeam = errors.New("unknown team")
)
