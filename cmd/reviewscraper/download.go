package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ReviewScraper/internal/app"
)

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	var (
		from        string
		dir         string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "download --from <reviews.csv>",
		Short: "Download the paper PDFs listed in a scrape result",
		Long: `Read the pdf_url column of a CSV produced by scrape and download every PDF
into a directory. Files that already exist are skipped; failed downloads are
logged and counted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Download.Dir = dir
			}
			if concurrency > 0 {
				cfg.Download.Concurrency = concurrency
			}

			result, err := app.New(cfg, logger).Download(cmd.Context(), from)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d, already present %d, failed %d\n",
				result.Downloaded, result.Existing, result.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "CSV file with a pdf_url column")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Target directory (overrides config)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Parallel downloads (overrides config)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
