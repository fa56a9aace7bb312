package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zaferkucuk/oover-sync/internal/app"
	"github.com/zaferkucuk/oover-sync/internal/config"
	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
	"github.com/zaferkucuk/oover-sync/internal/transform"
	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

type syncFlags struct {
	resource string
	league   string
	season   int
	date     string
	live     bool
	all      bool
	workers  int
	timeout  time.Duration
}

func main() {
	flags := syncFlags{}

	rootCmd := &cobra.Command{
		Use:           "sync",
		Short:         "Run a provider synchronization from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd.Context(), flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.resource, "resource", "", "resource to sync: country, league, team or fixture")
	rootCmd.Flags().StringVar(&flags.league, "league", "", "league external id to scope the fetch")
	rootCmd.Flags().IntVar(&flags.season, "season", 0, "season year to scope the fetch")
	rootCmd.Flags().StringVar(&flags.date, "date", "", "calendar day (YYYY-MM-DD) to scope fixture fetches")
	rootCmd.Flags().BoolVar(&flags.live, "live", false, "refresh in-play fixture state instead of a full sync")
	rootCmd.Flags().BoolVar(&flags.all, "all", false, "sync every resource in dependency order")
	rootCmd.Flags().IntVar(&flags.workers, "workers", 0, "worker pool size for --all (defaults to SYNC_WORKERS)")
	rootCmd.Flags().DurationVar(&flags.timeout, "timeout", 10*time.Minute, "overall run deadline")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runSync(ctx context.Context, flags syncFlags) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewConsole(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	repos, err := app.NewRepositories(cfg, logger)
	if err != nil {
		return err
	}
	defer repos.Close()

	service := app.NewSyncService(cfg, repos, logger)

	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	params, err := fetchParamsFromFlags(flags)
	if err != nil {
		return err
	}

	switch {
	case flags.live:
		run, err := service.SyncLive(ctx, params)
		printRun(run)
		return err
	case flags.all:
		workers := flags.workers
		if workers < 1 {
			workers = cfg.SyncWorkers
		}
		result, err := service.SyncAll(ctx, params, workers)
		for _, run := range result.Runs {
			printRun(run)
		}
		if err != nil {
			return err
		}
		if result.Failed() {
			return fmt.Errorf("one or more runs failed")
		}
		return nil
	default:
		resource, ok := transform.ParseResource(flags.resource)
		if !ok {
			return fmt.Errorf("--resource is required unless --all or --live is set")
		}
		run, err := service.Sync(ctx, resource, params)
		printRun(run)
		return err
	}
}

func fetchParamsFromFlags(flags syncFlags) (usecase.FetchParams, error) {
	params := usecase.FetchParams{
		LeagueExternalID: strings.TrimSpace(flags.league),
		Season:           flags.season,
		Live:             flags.live,
	}

	if strings.TrimSpace(flags.date) != "" {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(flags.date))
		if err != nil {
			return usecase.FetchParams{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", flags.date)
		}
		params.Date = date
	}

	return params, nil
}

func printRun(run syncrun.Result) {
	fmt.Printf("run %s: %s\n", run.RunID, run.Summary())
	for _, recordErr := range run.Errors {
		fmt.Printf("  record %s [%s]: %s\n", recordErr.ExternalID, recordErr.Stage, recordErr.Message)
	}
}
