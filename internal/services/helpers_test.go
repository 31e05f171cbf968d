package services

import (
	"field-visit-planner/internal/domain"
	"time"
)

var spokaneDepot = domain.Depot{
	Name:     "Spokane Depot",
	Address:  "Spokane, WA",
	Location: domain.Coordinates{Lat: 47.6588, Lng: -117.4260},
}

func coords(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lng: lng}
}

func weeklyClient(id string, lat, lng float64) domain.Client {
	return domain.Client{
		ID:          id,
		Name:        "Client " + id,
		Location:    coords(lat, lng),
		Recurrence:  domain.Recurrence{Frequency: domain.FrequencyWeekly},
		DurationMin: 30,
		WindowStart: "08:00",
		WindowEnd:   "17:00",
	}
}

func mustVisit(c domain.Client) domain.Visit {
	v, ok := domain.NewVisit(c)
	if !ok {
		panic("client " + c.ID + " has no location")
	}
	return v
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
