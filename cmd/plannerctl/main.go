package main

import (
	"context"
	"encoding/json"
	"field-visit-planner/internal/app"
	"field-visit-planner/internal/config"
	"field-visit-planner/internal/platform/logging"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "plannerctl",
	Short:         "Field visit planner tooling",
	Long:          "plannerctl manages the client database and runs planning operations without the HTTP server.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("PLANNER_CONFIG"), "path to a YAML or JSON config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	logging.SetLevel(cfg.Log.Level)
	logger = logging.NewWithWriter(os.Stderr, cfg.Log.Env, "plannerctl")
	return nil
}

// openDatabase opens the configured database; callers close it.
func openDatabase(ctx context.Context) (*app.Database, error) {
	d, err := app.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return d, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
