package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedPath string

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the client database",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Prepare(cmd.Context(), ""); err != nil {
			return err
		}
		logger.Info().Str("driver", cfg.Database.Driver).Msg("schema ready")
		return nil
	},
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load clients from a JSON seed file",
	Long: `Create the schema if needed and upsert every client in the seed file.

Examples:
  plannerctl db seed
  plannerctl db seed --file data/seeds/clients.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := seedPath
		if path == "" {
			path = cfg.Database.SeedPath
		}

		d, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Prepare(cmd.Context(), path); err != nil {
			return err
		}

		clients, err := d.Clients(logger).ListClients(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d clients from %s\n", len(clients), path)
		return nil
	},
}

func init() {
	dbSeedCmd.Flags().StringVarP(&seedPath, "file", "f", "", "seed file (defaults to database.seed_path)")
	dbCmd.AddCommand(dbInitCmd, dbSeedCmd)
	rootCmd.AddCommand(dbCmd)
}
