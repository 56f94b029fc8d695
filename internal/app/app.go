// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/text-scraper/internal/clock/system"
	"github.com/JakeFAU/text-scraper/internal/config"
	"github.com/JakeFAU/text-scraper/internal/extract"
	collyfetcher "github.com/JakeFAU/text-scraper/internal/fetcher/colly"
	"github.com/JakeFAU/text-scraper/internal/id/uuid"
	"github.com/JakeFAU/text-scraper/internal/logging"
	"github.com/JakeFAU/text-scraper/internal/metrics"
	"github.com/JakeFAU/text-scraper/internal/scraper"
	"github.com/JakeFAU/text-scraper/internal/storage"
)

// App holds the configuration and logger shared by every command, and knows
// how to build the store and the scrape engine from them.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	clock  *system.Clock
}

// NewApp loads configuration from cfgPath (optional) plus the environment and
// builds the logger. It fails fast on invalid configuration.
func NewApp(_ context.Context, cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(logging.Options{
		Development: cfg.Logging.Development,
		Level:       cfg.Logging.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return New(cfg, logger), nil
}

// New wraps an already loaded config and logger.
func New(cfg config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{cfg: cfg, logger: logger, clock: system.New()}
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetConfig returns the loaded configuration.
func (a *App) GetConfig() config.Config {
	return a.cfg
}

// OpenStore opens the configured text store. The caller owns the returned store.
func (a *App) OpenStore(ctx context.Context) (scraper.Store, error) {
	sc := a.cfg.StorageConfig()
	a.logger.Debug("Opening text store", zap.String("driver", sc.Driver), zap.String("table", sc.Table))
	store, err := storage.Open(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return store, nil
}

// OpenStoreReadOnly opens the configured store for reads. It fails instead of
// creating an empty database when none exists yet.
func (a *App) OpenStoreReadOnly(ctx context.Context) (scraper.Store, error) {
	sc := a.cfg.StorageConfig()
	sc.ReadOnly = true
	store, err := storage.Open(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to open store for reading: %w", err)
	}
	return store, nil
}

// NewEngine wires the fetch, extract, and store pipeline. Closing the engine closes store.
func (a *App) NewEngine(store scraper.Store) *scraper.Engine {
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:     a.cfg.Scraper.UserAgent,
		RespectRobots: a.cfg.Scraper.RespectRobots,
		Timeout:       a.cfg.RequestTimeout(),
	})
	return scraper.NewEngine(
		scraper.Config{
			URLTemplate: a.cfg.Scraper.URLTemplate,
			Delay:       a.cfg.Scraper.Delay,
		},
		fetcher,
		extract.New(a.logger.Named("extract")),
		store,
		a.clock,
		uuid.New(),
		metrics.NewRecorder(),
		a.logger.Named("scraper"),
	)
}

// FlushMetrics writes the Prometheus textfile when metrics.textfile_path is set.
func (a *App) FlushMetrics() {
	path := a.cfg.Metrics.TextfilePath
	if path == "" {
		return
	}
	metrics.MarkRunFinished(a.clock.Now())
	if err := metrics.WriteTextfile(path); err != nil {
		a.logger.Warn("Failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		return
	}
	a.logger.Debug("Wrote metrics textfile", zap.String("path", path))
}

// Close flushes the logger buffer.
func (a *App) Close() {
	// Best effort: syncing stderr/stdout fails on some platforms.
	_ = a.logger.Sync()
}

// DefaultRange returns the configured scraper.start_id and scraper.end_id.
func (a *App) DefaultRange() (start, end int64) {
	return a.cfg.Scraper.StartID, a.cfg.Scraper.EndID
}
