package storage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/JakeFAU/text-scraper/internal/scraper"
)

// MockStore is a mock implementation of scraper.Store for testing.
type MockStore struct {
	mock.Mock
}

// Init is the mock implementation of the Init method.
func (m *MockStore) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0) //nolint:wrapcheck
}

// Upsert is the mock implementation of the Upsert method.
func (m *MockStore) Upsert(ctx context.Context, record scraper.TextRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0) //nolint:wrapcheck
}

// Get is the mock implementation of the Get method.
func (m *MockStore) Get(ctx context.Context, id int64) (scraper.TextRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(scraper.TextRecord), args.Error(1) //nolint:wrapcheck
}

// Close is the mock implementation of the Close method.
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0) //nolint:wrapcheck
}
