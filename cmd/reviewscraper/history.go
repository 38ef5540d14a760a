package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"ReviewScraper/internal/app"
	"ReviewScraper/internal/infrastructure/storage"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	var (
		site  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List records saved by previous scrapes",
		Long: `Print the records kept in the local history store. The store is filled by
scrape runs when store.enabled is set in the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			records, err := app.New(cfg, logger).History(cmd.Context(), site, limit)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().StringVarP(&site, "site", "s", "", "Only list records of this site")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of records (0 for all)")

	return cmd
}

func renderHistory(out io.Writer, records []storage.StoredRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Site", "Paper", "Title", "Scores", "Decision", "Updated"})
	for _, stored := range records {
		rec := stored.Record
		t.AppendRow(table.Row{
			rec.Source,
			rec.ID,
			rec.Title,
			joinScores(rec.Scores),
			rec.Decision,
			stored.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 60}})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func joinScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = strconv.FormatFloat(s, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}
