// Package sqlite provides the default file-backed text store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/JakeFAU/text-scraper/internal/scraper"
)

// Defaults for the on-disk database.
const (
	DefaultPath  = "texts.db"
	DefaultTable = "texts"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ErrDatabaseMissing is returned when a read-only open finds no database file.
var ErrDatabaseMissing = errors.New("sqlite database does not exist")

// TextStoreConfig controls where records are written.
type TextStoreConfig struct {
	Path  string
	Table string
	// ReadOnly opens an existing file without creating it or the table.
	ReadOnly bool
}

// TextStore writes text records into a single SQLite table.
type TextStore struct {
	db    *sql.DB
	table string
}

// NewTextStore opens (creating if absent) the database file and ensures the
// table exists. With cfg.ReadOnly it only opens a file that is already there.
func NewTextStore(ctx context.Context, cfg TextStoreConfig) (*TextStore, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if cfg.ReadOnly {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrDatabaseMissing, path)
			}
			return nil, fmt.Errorf("stat sqlite %q: %w", path, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// One connection: the scraper is sequential and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	store, err := NewTextStoreWithDB(db, cfg.Table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.ReadOnly {
		return store, nil
	}
	if err := store.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewTextStoreWithDB constructs a store from an existing handle (primarily for testing).
// The caller is responsible for calling Init.
func NewTextStoreWithDB(db *sql.DB, table string) (*TextStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if table == "" {
		table = DefaultTable
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &TextStore{db: db, table: table}, nil
}

// Init creates the table if it does not exist. Safe to call repeatedly.
func (s *TextStore) Init(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id INTEGER PRIMARY KEY, text TEXT, attribution TEXT)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Upsert inserts the record or replaces the row with the same id.
func (s *TextStore) Upsert(ctx context.Context, record scraper.TextRecord) error {
	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s (id, text, attribution) VALUES (?, ?, ?)`, s.table)
	if _, err := s.db.ExecContext(ctx, query, record.ID, record.Text, record.Attribution); err != nil {
		return fmt.Errorf("upsert text %d: %w", record.ID, err)
	}
	return nil
}

// Get returns the record stored under id, or scraper.ErrNotFound.
func (s *TextStore) Get(ctx context.Context, id int64) (scraper.TextRecord, error) {
	query := fmt.Sprintf(`SELECT id, COALESCE(text, ''), COALESCE(attribution, '') FROM %s WHERE id = ?`, s.table)
	var rec scraper.TextRecord
	err := s.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &rec.Text, &rec.Attribution)
	if errors.Is(err, sql.ErrNoRows) {
		return scraper.TextRecord{}, fmt.Errorf("text %d: %w", id, scraper.ErrNotFound)
	}
	if err != nil {
		return scraper.TextRecord{}, fmt.Errorf("select text %d: %w", id, err)
	}
	return rec, nil
}

// Close releases the database handle.
func (s *TextStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}
