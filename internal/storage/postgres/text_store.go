// Package postgres provides Postgres-backed persistence implementations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/text-scraper/internal/scraper"
)

const defaultTable = "texts"

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// TextStoreConfig controls the Postgres connection pool used for text rows.
type TextStoreConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MaxConnLifetime time.Duration
	// ReadOnly skips table creation.
	ReadOnly bool
}

type pool interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Close()
}

// TextStore writes text rows into Postgres.
type TextStore struct {
	pool  pool
	table string
}

// NewTextStore connects to Postgres and ensures the table exists.
func NewTextStore(ctx context.Context, cfg TextStoreConfig) (*TextStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	store, err := NewTextStoreWithPool(p, cfg.Table)
	if err != nil {
		p.Close()
		return nil, err
	}
	if cfg.ReadOnly {
		return store, nil
	}
	if err := store.Init(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return store, nil
}

// NewTextStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewTextStoreWithPool(p pool, table string) (*TextStore, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = defaultTable
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &TextStore{pool: p, table: table}, nil
}

// Init creates the table if it does not exist.
func (s *TextStore) Init(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGINT PRIMARY KEY,
	text TEXT NOT NULL,
	attribution TEXT NOT NULL
)`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Upsert inserts the record or overwrites the row with the same id.
func (s *TextStore) Upsert(ctx context.Context, record scraper.TextRecord) error {
	query := fmt.Sprintf(`
INSERT INTO %s (id, text, attribution)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET text = EXCLUDED.text, attribution = EXCLUDED.attribution`, s.table)
	if _, err := s.pool.Exec(ctx, query, record.ID, record.Text, record.Attribution); err != nil {
		return fmt.Errorf("upsert text %d: %w", record.ID, err)
	}
	return nil
}

// Get returns the record stored under id, or scraper.ErrNotFound.
func (s *TextStore) Get(ctx context.Context, id int64) (scraper.TextRecord, error) {
	query := fmt.Sprintf(`SELECT id, text, attribution FROM %s WHERE id = $1`, s.table)
	var rec scraper.TextRecord
	err := s.pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.Text, &rec.Attribution)
	if errors.Is(err, pgx.ErrNoRows) {
		return scraper.TextRecord{}, fmt.Errorf("text %d: %w", id, scraper.ErrNotFound)
	}
	if err != nil {
		return scraper.TextRecord{}, fmt.Errorf("select text %d: %w", id, err)
	}
	return rec, nil
}

// Close releases the underlying pool resources.
func (s *TextStore) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}
