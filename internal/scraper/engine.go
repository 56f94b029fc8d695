package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultDelay is the pause between consecutive page requests.
const DefaultDelay = time.Second

// ErrInvalidRange is returned when start is greater than end.
var ErrInvalidRange = errors.New("start id must be <= end id")

// Config holds the settings for a scrape run.
type Config struct {
	URLTemplate string
	Delay       time.Duration
}

// Engine walks a page id range and stores every passage it can extract.
type Engine struct {
	cfg       Config
	fetcher   Fetcher
	extractor Extractor
	store     Store
	clock     Clock
	ids       IDGenerator
	recorder  Recorder
	logger    *zap.Logger
}

// NewEngine wires an Engine. recorder and ids may be nil.
func NewEngine(
	cfg Config,
	fetcher Fetcher,
	extractor Extractor,
	store Store,
	clock Clock,
	ids IDGenerator,
	recorder Recorder,
	logger *zap.Logger,
) *Engine {
	if cfg.URLTemplate == "" {
		cfg.URLTemplate = DefaultURLTemplate
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		store:     store,
		clock:     clock,
		ids:       ids,
		recorder:  recorder,
		logger:    logger,
	}
}

// Run processes every id in [start, end] in increasing order. Fetch and
// extraction failures are logged and skipped; a store failure ends the run.
func (e *Engine) Run(ctx context.Context, start, end int64) (RunStats, error) {
	var stats RunStats
	if start > end {
		return stats, fmt.Errorf("%w: start=%d end=%d", ErrInvalidRange, start, end)
	}

	logger := e.logger.With(zap.String("run_id", e.newRunID()))
	began := e.clock.Now()
	logger.Info("Scrape started", zap.Int64("start_id", start), zap.Int64("end_id", end))

	for id := start; id <= end; id++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("Scrape interrupted", zap.Int64("next_id", id), zap.Error(err))
			return stats, fmt.Errorf("scrape interrupted before id %d: %w", id, err)
		}

		outcome, err := e.processPage(ctx, logger, id)
		if err != nil {
			return stats, err
		}
		stats.add(outcome)

		e.clock.Sleep(ctx, e.cfg.Delay)
		// Prevent an id == MaxInt64 overflow from looping forever.
		if id == end {
			break
		}
	}

	logger.Info("Scrape finished",
		zap.Int("processed", stats.Processed),
		zap.Int("stored", stats.Stored),
		zap.Int("fetch_failed", stats.FetchFailed),
		zap.Int("no_text", stats.NoText),
		zap.Duration("elapsed", e.clock.Now().Sub(began)),
	)
	return stats, nil
}

// Close releases the underlying store.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

func (e *Engine) processPage(ctx context.Context, logger *zap.Logger, id int64) (Outcome, error) {
	pageURL := PageURL(e.cfg.URLTemplate, id)
	logger = logger.With(zap.Int64("page_id", id))

	resp, err := e.fetcher.Fetch(ctx, FetchRequest{PageID: id, URL: pageURL})
	if err != nil {
		logger.Warn("Error fetching page", zap.String("url", pageURL), zap.Error(err))
		e.record(OutcomeFetchFailed, "", resp.Duration)
		return OutcomeFetchFailed, nil
	}

	extraction, ok := e.extractor.Extract(resp.Body)
	if !ok {
		logger.Info("No text for page", zap.String("url", pageURL))
		e.record(OutcomeNoText, "", resp.Duration)
		return OutcomeNoText, nil
	}

	record := TextRecord{ID: id, Text: extraction.Text, Attribution: extraction.Attribution}
	if err := e.store.Upsert(ctx, record); err != nil {
		logger.Error("Failed to store text", zap.Error(err))
		return "", fmt.Errorf("store text %d: %w", id, err)
	}
	logger.Info("Stored text",
		zap.String("rule", string(extraction.Rule)),
		zap.String("text", record.Text),
		zap.String("attribution", record.Attribution),
	)
	e.record(OutcomeStored, extraction.Rule, resp.Duration)
	return OutcomeStored, nil
}

func (e *Engine) record(outcome Outcome, rule Rule, d time.Duration) {
	if e.recorder != nil {
		e.recorder.RecordOutcome(outcome, rule, d)
	}
}

func (e *Engine) newRunID() string {
	if e.ids == nil {
		return ""
	}
	id, err := e.ids.NewID()
	if err != nil {
		e.logger.Warn("Failed to generate run id", zap.Error(err))
		return ""
	}
	return id
}
