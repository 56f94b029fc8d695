// Package cmd defines and implements the CLI commands for the textscraper executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/text-scraper/internal/app"
	"github.com/JakeFAU/text-scraper/internal/scraper"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands will use.
// This allows us to inject a mock app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	OpenStore(ctx context.Context) (scraper.Store, error)
	OpenStoreReadOnly(ctx context.Context) (scraper.Store, error)
	NewEngine(store scraper.Store) *scraper.Engine
	FlushMetrics()
	DefaultRange() (start, end int64)
}

// newApp is the application factory. It's a variable so we can
// replace it with a mock factory in our tests.
var newApp = func(ctx context.Context, cfgFile string) (App, error) {
	a, err := app.NewApp(ctx, cfgFile)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "textscraper",
		Short: "Scrapes numbered text pages into a local database.",
		Long: `textscraper walks an inclusive range of text page ids, extracts each
passage and its attribution, and upserts them into a database keyed by
page id. Requests are sequential with a fixed delay between them.`,
		SilenceUsage: true,

		// This hook runs BEFORE the subcommand's RunE and injects the application.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			// Store the app instance in the context for subcommands to use.
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		// Only runs when RunE succeeded; Execute covers the error path.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML/JSON/TOML); env vars use the TEXTSCRAPER_ prefix")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newShowCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute(ctx context.Context) {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		zap.L().Error("Command execution failed", zap.Error(err))
		_ = zap.L().Sync()
		os.Exit(1)
	}
}
