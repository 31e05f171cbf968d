package main

import (
	"context"
	"errors"
	"field-visit-planner/internal/api"
	"field-visit-planner/internal/api/handlers"
	"field-visit-planner/internal/app"
	"field-visit-planner/internal/config"
	"field-visit-planner/internal/platform/logging"
	"field-visit-planner/internal/platform/metrics"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	configPath := flag.String("config", os.Getenv("PLANNER_CONFIG"), "path to a YAML or JSON config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logging.New("server")
		bootLog.Fatal().Err(err).Msg("load config")
	}

	logging.SetLevel(cfg.Log.Level)
	log := logging.NewWithWriter(os.Stdout, cfg.Log.Env, "server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	database, err := app.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.Database.SeedOnStart {
		if err := database.Prepare(ctx, cfg.Database.SeedPath); err != nil {
			return err
		}
		log.Info().Str("seed", cfg.Database.SeedPath).Msg("database initialized")
	}

	schedules, closeStore, err := app.ScheduleStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var (
		rec      metrics.Recorder = metrics.Nop{}
		gatherer prometheus.Gatherer
	)
	if !cfg.Metrics.Disabled {
		prom, err := metrics.NewProm(prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		rec, gatherer = prom, prometheus.DefaultGatherer
	}

	geocoder, err := database.Geocoder(cfg.Geocoding, log)
	if err != nil {
		return err
	}
	if geocoder == nil {
		log.Warn().Msg("geocoding disabled: no api key configured")
	}

	clients := database.Clients(log)
	scheduler := app.NewScheduler(cfg, clients, schedules, rec, log)

	router := api.NewRouter(api.Deps{
		Scheduler:   scheduler,
		Clients:     clients,
		Geocoder:    geocoder,
		Metrics:     rec,
		Log:         log,
		Gatherer:    gatherer,
		MetricsPath: cfg.Metrics.Path,
		Defaults: handlers.ScheduleDefaults{
			TeamCount:     cfg.Planning.DefaultTeamCount,
			HorizonDays:   cfg.Planning.DefaultHorizonDays,
			IncludeReturn: cfg.Planning.IncludeReturn,
		},
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.HTTP.Addr).
			Str("db", cfg.Database.Driver).
			Str("store", cfg.Store.Backend).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
