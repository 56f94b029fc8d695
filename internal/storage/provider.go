// Package storage selects and opens the text store backend.
// By using the scraper.Store interface, the pipeline stays independent of the
// database that ends up holding the records.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JakeFAU/text-scraper/internal/scraper"
	"github.com/JakeFAU/text-scraper/internal/storage/postgres"
	"github.com/JakeFAU/text-scraper/internal/storage/sqlite"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is returned for unsupported store.driver values.
var ErrUnknownDriver = errors.New("unknown store driver")

// Config describes which backend to open and where.
type Config struct {
	Driver string
	Path   string
	DSN    string
	Table  string
	// ReadOnly opens an existing store for reads without creating anything.
	ReadOnly bool
}

// Open connects to the configured backend and initializes its schema.
func Open(ctx context.Context, cfg Config) (scraper.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverSQLite:
		store, err := sqlite.NewTextStore(ctx, sqlite.TextStoreConfig{
			Path:     cfg.Path,
			Table:    cfg.Table,
			ReadOnly: cfg.ReadOnly,
		})
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case DriverPostgres:
		store, err := postgres.NewTextStore(ctx, postgres.TextStoreConfig{
			DSN:      cfg.DSN,
			Table:    cfg.Table,
			ReadOnly: cfg.ReadOnly,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
