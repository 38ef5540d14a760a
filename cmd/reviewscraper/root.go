package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ReviewScraper/internal/config"
	"ReviewScraper/internal/logging"
)

// NewRootCmd creates the root command. Without a subcommand it runs a scrape.
func NewRootCmd() *cobra.Command {
	opts := &scrapeOptions{}
	cmd := &cobra.Command{
		Use:   "reviewscraper",
		Short: "Scrape conference open-review pages into a table",
		Long: `ReviewScraper fetches the public review pages of a conference, extracts
one record per paper (identifier, title, reviewer scores, comments) and writes
them to a CSV, JSON or Markdown file.

Sites, selectors and output columns come from a YAML config file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, opts)
		},
	}

	cmd.PersistentFlags().String("config", "", "Path to the YAML config file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	addScrapeFlags(cmd, opts)

	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewDownloadCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config selected by the persistent flags and builds the logger.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, logging.New(cfg.Logging.Level), nil
}
