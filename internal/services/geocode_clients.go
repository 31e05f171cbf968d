package services

import (
	"context"
	"errors"
	"field-visit-planner/internal/platform/obs"
	"field-visit-planner/internal/ports"
	"fmt"

	"github.com/rs/zerolog"
)

// GeocodeReport summarizes a GeocodeMissing run.
type GeocodeReport struct {
	Located  []string
	NotFound []string
	Skipped  int
}

// GeocodeMissing resolves coordinates for every client without a location
// and stores them. Addresses the geocoder cannot match are reported, not
// treated as failures; any other error stops the run.
func GeocodeMissing(
	ctx context.Context,
	repo ports.ClientRepository,
	geocoder ports.Geocoder,
	log zerolog.Logger,
) (_ *GeocodeReport, err error) {
	defer obs.Time(ctx, log, "services.GeocodeMissing")(&err)

	clients, err := repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("geocode clients: %w", err)
	}

	report := &GeocodeReport{}
	for _, c := range clients {
		if c.Located() {
			report.Skipped++
			continue
		}

		loc, err := geocoder.Geocode(ctx, c.Address)
		if errors.Is(err, ports.ErrAddressNotFound) {
			log.Warn().Str("client_id", c.ID).Str("address", c.Address).Msg("address not found")
			report.NotFound = append(report.NotFound, c.ID)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("geocode clients: client %s: %w", c.ID, err)
		}

		if err := repo.UpdateLocation(ctx, c.ID, loc); err != nil {
			return report, fmt.Errorf("geocode clients: %w", err)
		}
		log.Info().Str("client_id", c.ID).Float64("lat", loc.Lat).Float64("lng", loc.Lng).Msg("client located")
		report.Located = append(report.Located, c.ID)
	}

	return report, nil
}
