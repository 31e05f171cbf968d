package main

import (
	"context"
	"field-visit-planner/internal/adapters/store"
	"field-visit-planner/internal/api/dto"
	"field-visit-planner/internal/app"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/platform/metrics"
	"field-visit-planner/internal/services"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	planStart         string
	planDays          int
	planTeams         int
	planIncludeReturn bool

	suggestClient string
	suggestDate   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a plan and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		scheduler := app.NewScheduler(cfg, d.Clients(logger), store.NewMemoryScheduleStore(), metrics.Nop{}, logger)
		sched, err := generate(ctx, cmd, scheduler)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), dto.NewScheduleResponse(sched))
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Rank insertion slots for a client on one date of a freshly generated plan",
	Long: `Generate a plan with the same flags as "generate", then list the best
insertion slots for --client on --date.

Example:
  plannerctl suggest --client c2 --date 2026-10-23 --start 2026-10-19 --days 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		date, err := domain.ParseDateKey(suggestDate)
		if err != nil {
			return fmt.Errorf("--date: %w", err)
		}

		d, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		scheduler := app.NewScheduler(cfg, d.Clients(logger), store.NewMemoryScheduleStore(), metrics.Nop{}, logger)
		sched, err := generate(ctx, cmd, scheduler)
		if err != nil {
			return err
		}

		options, err := scheduler.Suggest(ctx, sched.ID, suggestClient, date)
		if err != nil {
			return err
		}

		res := dto.SuggestResponse{ClientID: suggestClient, Date: date, Options: make([]dto.OptionResponse, 0, len(options))}
		for _, o := range options {
			res.Options = append(res.Options, dto.NewOptionResponse(o))
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

// generate runs the scheduler with the plan flags, falling back to the
// configured planning defaults.
func generate(ctx context.Context, cmd *cobra.Command, scheduler *services.Scheduler) (*domain.Schedule, error) {
	start := time.Now().UTC()
	if planStart != "" {
		key, err := domain.ParseDateKey(planStart)
		if err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
		if start, err = key.Time(); err != nil {
			return nil, err
		}
	}

	days := planDays
	if days == 0 {
		days = cfg.Planning.DefaultHorizonDays
	}
	teams := planTeams
	if teams == 0 {
		teams = cfg.Planning.DefaultTeamCount
	}
	includeReturn := cfg.Planning.IncludeReturn
	if cmd.Flags().Changed("include-return") {
		includeReturn = planIncludeReturn
	}

	return scheduler.Generate(ctx, services.GenerateRequest{
		StartDate:     start,
		Days:          days,
		TeamCount:     teams,
		IncludeReturn: includeReturn,
	})
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&planStart, "start", "", "first planned date, YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&planDays, "days", 0, "horizon in days (default planning.default_horizon_days)")
	cmd.Flags().IntVar(&planTeams, "teams", 0, "team count (default planning.default_team_count)")
	cmd.Flags().BoolVar(&planIncludeReturn, "include-return", false, "count the drive back to the depot in route totals")
}

func init() {
	addPlanFlags(generateCmd)
	addPlanFlags(suggestCmd)
	suggestCmd.Flags().StringVar(&suggestClient, "client", "", "client id to move")
	suggestCmd.Flags().StringVar(&suggestDate, "date", "", "target date, YYYY-MM-DD")
	_ = suggestCmd.MarkFlagRequired("client")
	_ = suggestCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(generateCmd, suggestCmd)
}
