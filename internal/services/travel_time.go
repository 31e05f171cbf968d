package services

import (
	"field-visit-planner/internal/domain"
	"math"
)

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0
	// AverageSpeedKmph converts great-circle distance into drive time.
	AverageSpeedKmph = 55.0
)

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(a, b domain.Coordinates) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLng := degToRad(b.Lng - a.Lng)

	s1 := math.Sin(dLat / 2)
	s2 := math.Sin(dLng / 2)
	h := s1*s1 + math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*s2*s2

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// TravelMinutes estimates drive time between two points at a fixed average
// speed. This is not a road network: no traffic, no real travel matrix.
func TravelMinutes(a, b domain.Coordinates) float64 {
	return HaversineKm(a, b) / AverageSpeedKmph * 60
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
