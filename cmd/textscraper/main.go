// Package main is the entry point for the textscraper executable.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/JakeFAU/text-scraper/cmd"
)

// main defers all execution to the Cobra CLI. SIGINT/SIGTERM cancel the run
// between page ids; the store is still closed on the way out.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
