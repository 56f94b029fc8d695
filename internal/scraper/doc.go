// Package scraper implements the sequential text scraping pipeline: it walks an
// inclusive range of page ids, fetches each page, extracts the passage and its
// attribution, and upserts the result into a Store.
package scraper
