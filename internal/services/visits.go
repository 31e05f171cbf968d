package services

import (
	"field-visit-planner/internal/domain"
	"time"
)

// VisitSet is the outcome of building one date's visits. Unlocated lists
// clients that were due but could not be planned for lack of coordinates.
type VisitSet struct {
	Date      domain.DateKey
	Visits    []domain.Visit
	Unlocated []string
}

// BuildVisits derives the visits due on date from every client's recurrence.
// The order of Visits is not significant; partitioning re-sorts it.
func BuildVisits(date time.Time, clients []domain.Client, weekAnchor time.Time) VisitSet {
	set := VisitSet{
		Date:   domain.DateKeyOf(civilDate(date)),
		Visits: make([]domain.Visit, 0, len(clients)),
	}

	for _, c := range clients {
		if !IsDue(date, c, weekAnchor) {
			continue
		}

		v, ok := domain.NewVisit(c)
		if !ok {
			set.Unlocated = append(set.Unlocated, c.ID)
			continue
		}
		set.Visits = append(set.Visits, v)
	}

	return set
}
