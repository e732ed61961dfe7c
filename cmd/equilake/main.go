// EquiLake — scheduled ETL for financial news and daily stock prices.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/equilake/equilake/internal/config"
	"github.com/equilake/equilake/internal/ingest"
	"github.com/equilake/equilake/internal/logger"
	"github.com/equilake/equilake/internal/pipeline"
	"github.com/equilake/equilake/internal/providers/alphavantage"
	"github.com/equilake/equilake/internal/providers/newsapi"
	"github.com/equilake/equilake/internal/providers/rssnews"
	"github.com/equilake/equilake/internal/storage"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals resolved once in PersistentPreRunE.
var (
	cfg *config.Config
	log *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "equilake",
	Short: "EquiLake — financial news and stock price data lake pipeline",
	Long: `EquiLake ingests financial news (NewsAPI) and daily stock prices
(Alpha Vantage), normalizes them into a canonical tabular schema with
sentiment enrichment, and lands date-partitioned CSV/Parquet snapshots
in an S3 data lake.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, err = logger.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("date", "", "run date override, YYYY-MM-DD (default: today)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(keysCmd)
}

// runDate resolves the calendar date this invocation operates on.
func runDate(cmd *cobra.Command) (time.Time, error) {
	override, _ := cmd.Flags().GetString("date")
	if override == "" {
		return time.Now(), nil
	}
	d, err := time.Parse("2006-01-02", override)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", override, err)
	}
	return d, nil
}

// newStore builds the S3 blob store from config.
func newStore(ctx context.Context) (storage.BlobStore, error) {
	return storage.NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion)
}

// newIngestor wires the provider clients. When no NewsAPI key is set
// the keyless RSS source stands in for the news provider.
func newIngestor(store storage.BlobStore) *ingest.Ingestor {
	var fetchNews ingest.NewsFetcher
	if cfg.NewsAPIKey != "" {
		client := newsapi.New(cfg.NewsAPIKey, log)
		fetchNews = func(ctx context.Context) ([]byte, error) {
			return client.FetchEverything(ctx, cfg.NewsQuery)
		}
	} else {
		client := rssnews.New(log)
		fetchNews = func(ctx context.Context) ([]byte, error) {
			return client.FetchPayload(ctx, 50)
		}
		log.Info("NEWS_API_KEY not set, using RSS news sources")
	}

	av := alphavantage.New(cfg.AlphaVantageKey, log)
	fetchPrice := func(ctx context.Context, symbol string) ([]byte, error) {
		return av.FetchDailySeries(ctx, symbol)
	}

	return ingest.New(cfg, store, fetchNews, fetchPrice, log)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("EquiLake %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Fetch Command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch raw news and price payloads into the raw partition",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := runDate(cmd)
		if err != nil {
			return err
		}
		store, err := newStore(ctx)
		if err != nil {
			return err
		}

		newIngestor(store).Run(ctx, d)
		return nil
	},
}

// --- Process Command ---

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Normalize the day's raw snapshots into processed CSV/Parquet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := runDate(cmd)
		if err != nil {
			return err
		}
		store, err := newStore(ctx)
		if err != nil {
			return err
		}

		pipeline.New(cfg, store, log).Run(ctx, d)
		return nil
	},
}

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch and process in one pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := runDate(cmd)
		if err != nil {
			return err
		}
		store, err := newStore(ctx)
		if err != nil {
			return err
		}

		newIngestor(store).Run(ctx, d)
		pipeline.New(cfg, store, log).Run(ctx, d)
		return nil
	},
}

// --- Schedule Command ---

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the full pipeline daily at the configured time",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := newStore(ctx)
		if err != nil {
			return err
		}

		var hour, minute int
		if _, err := fmt.Sscanf(cfg.ScheduleAt, "%d:%d", &hour, &minute); err != nil {
			return fmt.Errorf("invalid schedule_at %q (want HH:MM): %w", cfg.ScheduleAt, err)
		}

		c := cron.New()
		spec := fmt.Sprintf("%d %d * * *", minute, hour)
		_, err = c.AddFunc(spec, func() {
			d := time.Now()
			log.Info("scheduled run starting", zap.String("date", d.Format("2006-01-02")))
			newIngestor(store).Run(ctx, d)
			pipeline.New(cfg, store, log).Run(ctx, d)
			log.Info("scheduled run finished")
		})
		if err != nil {
			return fmt.Errorf("add cron job: %w", err)
		}

		log.Info("scheduler started", zap.String("daily_at", cfg.ScheduleAt))
		c.Run()
		return nil
	},
}

// --- Keys Command ---

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the status of configured credentials",
	Run: func(cmd *cobra.Command, args []string) {
		for _, status := range config.CheckAPIKeys(cfg) {
			state := "not set"
			if status.IsSet {
				state = fmt.Sprintf("set (%s, %s)", status.Source, status.Masked)
			}
			fmt.Printf("%-20s %s\n", status.Name, state)
		}
	},
}
