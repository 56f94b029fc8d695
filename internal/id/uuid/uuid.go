// Package uuid tags each scrape run with an id that is attached to every log line.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator implements scraper.IDGenerator. Version 7 ids embed a millisecond
// timestamp, so sorting run ids in log output also sorts runs by start time.
type Generator struct{}

// New returns a Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a fresh run id.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return id.String(), nil
}
