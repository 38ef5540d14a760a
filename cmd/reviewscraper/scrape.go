package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ReviewScraper/internal/app"
	"ReviewScraper/internal/usecase"
)

type scrapeOptions struct {
	output   string
	format   string
	columns  []string
	every    time.Duration
	schedule string
}

func addScrapeFlags(cmd *cobra.Command, opts *scrapeOptions) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (overrides config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: csv, json or markdown")
	cmd.Flags().StringSliceVar(&opts.columns, "columns", nil, "Comma-separated output columns")
	cmd.Flags().DurationVar(&opts.every, "every", 0, "Repeat the scrape at this interval until interrupted")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "", `Repeat the scrape on a cron schedule, e.g. "0 6 * * *"`)
	cmd.MarkFlagsMutuallyExclusive("every", "schedule")
}

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	opts := &scrapeOptions{}
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the configured sites and write the review table",
		Long: `Fetch every configured site, extract one record per paper and write the
records to the output file. Unparseable papers are logged and skipped; a
network or file error aborts the run and leaves any previous output untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, opts)
		},
	}
	addScrapeFlags(cmd, opts)
	return cmd
}

func runScrape(cmd *cobra.Command, opts *scrapeOptions) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if opts.output != "" {
		cfg.Output.Path = opts.output
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if len(opts.columns) > 0 {
		cfg.Output.Columns = opts.columns
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	application := app.New(cfg, logger)
	scrape := func(ctx context.Context) error {
		stats, err := application.Scrape(ctx)
		if err != nil {
			if usecase.IsCancelled(err) {
				logger.Info("scrape interrupted")
			} else {
				logger.Error("scrape failed", "error", err)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s (%d skipped", stats.Written, cfg.Output.Path, stats.Skipped)
		if cfg.Store.Enabled {
			fmt.Fprintf(cmd.OutOrStdout(), ", %d new", stats.New)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ")")
		return nil
	}

	spec := opts.schedule
	if opts.every > 0 {
		spec = "@every " + opts.every.String()
	}
	scheduler, err := usecase.NewScheduler(spec, logger.With("component", "scheduler"))
	if err != nil {
		return err
	}
	return scheduler.Run(cmd.Context(), scrape)
}
