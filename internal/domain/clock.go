package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DayStartMinutes is when every team leaves the depot (08:00).
	DayStartMinutes = 8 * 60
	// DefaultWindowStart applies when a client's window start is missing or unparsable.
	DefaultWindowStart = 8 * 60
	// DefaultWindowEnd applies when a client's window end is missing or unparsable.
	DefaultWindowEnd = 17 * 60
	// DefaultDurationMinutes applies when a client's service duration is absent or non-positive.
	DefaultDurationMinutes = 60
	// GraceMinutes extends a window end when judging feasibility.
	GraceMinutes = 60
)

// ParseClock parses "HH:MM" (or "HH") into minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse clock: empty value")
	}

	hh, mm, hasMinutes := strings.Cut(s, ":")
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: hours: %w", s, err)
	}

	m := 0
	if hasMinutes && mm != "" {
		m, err = strconv.Atoi(mm)
		if err != nil {
			return 0, fmt.Errorf("parse clock %q: minutes: %w", s, err)
		}
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}

	return h*60 + m, nil
}

// MinutesToClock renders minutes since midnight as "HH:MM", rounding to the
// nearest minute and clamping negatives to 00:00.
func MinutesToClock(minutes float64) string {
	m := int(math.Round(math.Max(0, minutes)))
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
