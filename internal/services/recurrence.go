package services

import (
	"field-visit-planner/internal/domain"
	"time"
)

// civilDate drops the time of day and pins the calendar date to UTC so day
// arithmetic is not affected by DST transitions.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns the Sunday that begins the calendar week containing t.
func StartOfWeek(t time.Time) time.Time {
	d := civilDate(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekAnchor returns the start of the week containing the planning start
// date. It fixes biweekly parity for the whole horizon.
func WeekAnchor(start time.Time) time.Time {
	return StartOfWeek(start)
}

// IsDue reports whether client c needs a visit on date.
//
// The preferred-day filter applies first. Biweekly clients are due on even
// weeks counted from weekAnchor (the anchor week itself is due). Monthly
// clients are due on the first occurrence of their target weekday in the
// month. Unknown frequencies are never due.
func IsDue(date time.Time, c domain.Client, weekAnchor time.Time) bool {
	day := civilDate(date)
	rec := c.Recurrence
	if !rec.Prefers(day.Weekday()) {
		return false
	}

	switch rec.Frequency {
	case domain.FrequencyWeekly:
		return true
	case domain.FrequencyBiweekly:
		return weekIndex(day, weekAnchor)%2 == 0
	case domain.FrequencyMonthly:
		target := day.Weekday()
		// Only the first preferred day anchors a monthly rule.
		if len(rec.PreferredDays) > 0 {
			target = rec.PreferredDays[0]
		}
		return firstWeekdayOfMonth(day.Year(), day.Month(), target).Equal(day)
	default:
		return false
	}
}

// weekIndex counts whole weeks from the anchor week to the week of date.
// Both ends are Sundays, so the day difference is an exact multiple of seven.
func weekIndex(date, weekAnchor time.Time) int {
	days := int(StartOfWeek(date).Sub(StartOfWeek(weekAnchor)).Hours() / 24)
	return days / 7
}

func firstWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset)
}
