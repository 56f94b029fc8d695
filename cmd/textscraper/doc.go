// Package main hosts the textscraper entrypoint.
//
// Architecture overview:
//   - CLI: cmd.newRootCmd builds a cobra command tree (scrape, show). A persistent pre-run hook loads configuration
//     and builds the logger through internal/app, which acts as the dependency container for every command.
//   - Pipeline: scraper.Engine walks the inclusive id range in order. For each id it builds the page URL from
//     scraper.url_template, fetches it with the Colly-based fetcher (single attempt, http.timeout_seconds bound),
//     extracts the passage with the goquery extractor (heading rule, then long-paragraph fallback), and upserts the
//     record. A fixed scraper.delay separates consecutive requests.
//   - Persistence: SQLite via modernc.org/sqlite by default (texts.db, table texts); Postgres via pgx when
//     store.driver=postgres. Upserts replace the row for an id, so reruns are idempotent.
//   - Configuration & plumbing: Viper populates config from an optional file plus TEXTSCRAPER_* env vars; zap provides
//     structured logging with a per-run UUIDv7; Prometheus counters are optionally dumped to a textfile at the end of
//     a run for node_exporter.
//
// Operational notes:
//   - Failure model: fetch and extraction failures are logged and skipped. A store error stops the run and the
//     process exits non-zero. The store is closed on every path.
//   - No resume: an interrupted run (SIGINT/SIGTERM) stops between ids; rerun with --start set to the next id.
//   - The heading's own "Text #<n>" number is not compared with the requested id.
//
// Quick checklist:
//   - Run locally: go run ./cmd/textscraper scrape --start 3640650 --end 3640660
//   - Inspect a row: go run ./cmd/textscraper show 3640650
//   - Env overrides: TEXTSCRAPER_STORE_PATH, TEXTSCRAPER_SCRAPER_DELAY=2s, TEXTSCRAPER_HTTP_TIMEOUT_SECONDS,
//     TEXTSCRAPER_STORE_DRIVER=postgres with TEXTSCRAPER_STORE_DSN.
package main
