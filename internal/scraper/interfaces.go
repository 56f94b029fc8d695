package scraper

import (
	"context"
	"errors"
	"time"
)

// Store persists text records keyed by page id.
type Store interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, record TextRecord) error
	Get(ctx context.Context, id int64) (TextRecord, error)
	Close() error
}

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// Extractor pulls a passage out of raw HTML. The bool is false when nothing matched.
type Extractor interface {
	Extract(html []byte) (Extraction, bool)
}

// Clock returns the current time and waits between requests (useful for testing).
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration)
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// Recorder observes per-id outcomes, e.g. for metrics.
type Recorder interface {
	RecordOutcome(outcome Outcome, rule Rule, fetchDuration time.Duration)
}

// ErrNotFound is returned by Store.Get when no record exists for an id.
var ErrNotFound = errors.New("text record not found")
