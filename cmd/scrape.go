package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newScrapeCmd creates and configures the 'scrape' subcommand.
// It fetches every id in the range, stores what it can extract, and closes the
// store when done, including when a store error aborts the run.
func newScrapeCmd() *cobra.Command {
	var start, end int64

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrapes a range of text pages",
		Long: `Fetches every page id from --start to --end (both inclusive), one at a
time, and upserts the extracted passage and attribution. Pages that fail to
download or contain no recognizable passage are logged and skipped; a
database error stops the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			defStart, defEnd := appInstance.DefaultRange()
			if !cmd.Flags().Changed("start") {
				start = defStart
			}
			if !cmd.Flags().Changed("end") {
				end = defEnd
			}
			return runScrape(cmd, appInstance, start, end)
		},
	}
	cmd.Flags().Int64Var(&start, "start", 0, "first page id (default from scraper.start_id)")
	cmd.Flags().Int64Var(&end, "end", 0, "last page id, inclusive (default from scraper.end_id)")
	return cmd
}

func runScrape(cmd *cobra.Command, appInstance App, start, end int64) error {
	logger := appInstance.GetLogger()

	store, err := appInstance.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	engine := appInstance.NewEngine(store)
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			logger.Warn("Failed to close engine", zap.Error(cerr))
		}
	}()
	defer appInstance.FlushMetrics()

	stats, err := engine.Run(cmd.Context(), start, end)
	if err != nil {
		return fmt.Errorf("run scraper: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored %d of %d texts (%d fetch failures, %d without text)\n",
		stats.Stored, stats.Processed, stats.FetchFailed, stats.NoText)
	logger.Info("Scrape command finished.")
	return nil
}
