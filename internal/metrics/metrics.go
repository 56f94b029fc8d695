// Package metrics exposes Prometheus collectors for the text scraper.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JakeFAU/text-scraper/internal/scraper"
)

var (
	scraperPagesTotal          *prometheus.CounterVec
	scraperExtractionsTotal    *prometheus.CounterVec
	scraperFetchDurationSecond prometheus.Histogram
	scraperLastRunTimestamp    prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scraperPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textscraper_pages_total",
				Help: "Total number of page ids processed, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		scraperExtractionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textscraper_extractions_total",
				Help: "Total number of stored extractions, labeled by the rule that matched.",
			},
			[]string{"rule"},
		)

		scraperFetchDurationSecond = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "textscraper_fetch_duration_seconds",
				Help:    "Histogram of page fetch latencies.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		)

		scraperLastRunTimestamp = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "textscraper_last_run_timestamp_seconds",
				Help: "Unix time at which the last scrape run finished.",
			},
		)
	})
}

// Recorder implements scraper.Recorder on top of the package collectors.
type Recorder struct{}

// NewRecorder initializes the collectors and returns a Recorder.
func NewRecorder() *Recorder {
	Init()
	return &Recorder{}
}

// RecordOutcome counts the page and, for fetched pages, observes latency.
func (Recorder) RecordOutcome(outcome scraper.Outcome, rule scraper.Rule, fetchDuration time.Duration) {
	scraperPagesTotal.WithLabelValues(string(outcome)).Inc()
	if outcome == scraper.OutcomeStored && rule != "" {
		scraperExtractionsTotal.WithLabelValues(string(rule)).Inc()
	}
	if fetchDuration > 0 {
		scraperFetchDurationSecond.Observe(fetchDuration.Seconds())
	}
}

// MarkRunFinished stamps the last-run gauge.
func MarkRunFinished(at time.Time) {
	scraperLastRunTimestamp.Set(float64(at.Unix()))
}

// WriteTextfile dumps the default registry in the text exposition format, for
// pickup by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
