package main

import (
	"errors"
	"field-visit-planner/internal/services"
	"fmt"

	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Fill in coordinates for clients without a location",
	Long: `Look up every client that has no coordinates with the OpenRouteService
geocoder and store the result. Requires geocoding.api_key
(PLANNER_GEOCODING__API_KEY).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		geocoder, err := d.Geocoder(cfg.Geocoding, logger)
		if err != nil {
			return err
		}
		if geocoder == nil {
			return errors.New("geocoding is not configured: set geocoding.api_key")
		}

		report, err := services.GeocodeMissing(ctx, d.Clients(logger), geocoder, logger)
		if report != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "located %d, not found %d, already located %d\n",
				len(report.Located), len(report.NotFound), report.Skipped)
			for _, id := range report.NotFound {
				fmt.Fprintf(cmd.OutOrStdout(), "  no match: %s\n", id)
			}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}
