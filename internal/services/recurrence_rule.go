package services

import (
	"field-visit-planner/internal/domain"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

var rruleWeekdays = []rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// RecurrenceRule renders a client's recurrence as an RFC 5545 RRULE value
// (without the "RRULE:" prefix) so calendars can display it.
//
// Biweekly rules carry INTERVAL=2 and are meant to start at weekAnchor.
// Monthly rules pin the first occurrence of the first preferred weekday; a
// monthly rule with no preferred day has no single-weekday RRULE equivalent
// and is rendered as every first-week day.
func RecurrenceRule(c domain.Client, weekAnchor time.Time) (string, error) {
	rec := c.Recurrence
	days := make([]rrule.Weekday, 0, len(rec.PreferredDays))
	for _, d := range rec.PreferredDays {
		if d < time.Sunday || d > time.Saturday {
			return "", fmt.Errorf("recurrence rule: client %q: weekday %d out of range", c.ID, d)
		}
		days = append(days, rruleWeekdays[d])
	}

	opt := rrule.ROption{
		Dtstart: StartOfWeek(weekAnchor),
		Wkst:    rrule.SU,
	}

	// An empty preferred-day set means any day of the week.
	weekly := days
	if len(weekly) == 0 {
		weekly = rruleWeekdays
	}

	switch rec.Frequency {
	case domain.FrequencyWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = weekly
	case domain.FrequencyBiweekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
		opt.Byweekday = weekly
	case domain.FrequencyMonthly:
		opt.Freq = rrule.MONTHLY
		if len(days) > 0 {
			opt.Byweekday = []rrule.Weekday{days[0].Nth(1)}
		} else {
			opt.Bymonthday = []int{1, 2, 3, 4, 5, 6, 7}
		}
	default:
		return "", fmt.Errorf("recurrence rule: client %q: frequency %q: %w", c.ID, rec.Frequency, domain.ErrInvalidConfiguration)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("recurrence rule: client %q: %w", c.ID, err)
	}

	return r.OrigOptions.RRuleString(), nil
}

// DueDates lists the dates in [from, from+days) on which c is due.
func DueDates(c domain.Client, weekAnchor, from time.Time, days int) []domain.DateKey {
	out := []domain.DateKey{}
	start := civilDate(from)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		if IsDue(d, c, weekAnchor) {
			out = append(out, domain.DateKeyOf(d))
		}
	}
	return out
}
