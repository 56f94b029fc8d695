package scraper

import (
	"net/http"
	"time"
)

// TextRecord is the persisted passage for a single page id.
type TextRecord struct {
	ID          int64  `json:"id" db:"id"`
	Text        string `json:"text" db:"text"`
	Attribution string `json:"attribution" db:"attribution"`
}

// Rule names the extraction heuristic that produced a result.
type Rule string

// Extraction rules.
const (
	RulePrimary  Rule = "primary"
	RuleFallback Rule = "fallback"
)

// Extraction is the passage and attribution pulled from a page.
type Extraction struct {
	Text        string
	Attribution string
	Rule        Rule
}

// Outcome is the per-id result of a pipeline pass.
type Outcome string

// Outcome values recorded for every processed id.
const (
	OutcomeStored      Outcome = "stored"
	OutcomeFetchFailed Outcome = "fetch_failed"
	OutcomeNoText      Outcome = "no_text"
)

// FetchRequest captures everything needed to fetch a page.
type FetchRequest struct {
	PageID int64
	URL    string
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// RunStats summarizes a completed or interrupted run.
type RunStats struct {
	Processed   int
	Stored      int
	FetchFailed int
	NoText      int
}

func (s *RunStats) add(o Outcome) {
	s.Processed++
	switch o {
	case OutcomeStored:
		s.Stored++
	case OutcomeFetchFailed:
		s.FetchFailed++
	case OutcomeNoText:
		s.NoText++
	}
}
