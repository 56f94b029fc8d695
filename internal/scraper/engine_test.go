package scraper_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/text-scraper/internal/extract"
	"github.com/JakeFAU/text-scraper/internal/scraper"
	"github.com/JakeFAU/text-scraper/internal/storage"
	"github.com/JakeFAU/text-scraper/internal/storage/sqlite"
)

const urlTemplate = "http://texts.test/text?id={id}"

// MockFetcher is a mock implementation of the Fetcher interface.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, request scraper.FetchRequest) (scraper.FetchResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(scraper.FetchResponse), args.Error(1)
}

// fakeClock records requested sleeps instead of blocking.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	onWait func()
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	hook := c.onWait
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
}

type fixedIDs struct{}

func (fixedIDs) NewID() (string, error) { return "run-1", nil }

type outcomeLog struct {
	outcomes []scraper.Outcome
	rules    []scraper.Rule
}

func (o *outcomeLog) RecordOutcome(outcome scraper.Outcome, rule scraper.Rule, _ time.Duration) {
	o.outcomes = append(o.outcomes, outcome)
	o.rules = append(o.rules, rule)
}

func pageHTML(text, attribution string) []byte {
	return []byte(`<html><body><h1>Text #1</h1><p>` + text + `</p><p>` + attribution + `</p></body></html>`)
}

func request(id int64) scraper.FetchRequest {
	return scraper.FetchRequest{PageID: id, URL: scraper.PageURL(urlTemplate, id)}
}

func newSQLiteStore(t *testing.T, path string) *sqlite.TextStore {
	t.Helper()
	store, err := sqlite.NewTextStore(context.Background(), sqlite.TextStoreConfig{Path: path})
	require.NoError(t, err)
	return store
}

func newEngine(fetcher scraper.Fetcher, store scraper.Store, clock scraper.Clock, rec scraper.Recorder) *scraper.Engine {
	return scraper.NewEngine(
		scraper.Config{URLTemplate: urlTemplate, Delay: time.Second},
		fetcher,
		extract.New(nil),
		store,
		clock,
		fixedIDs{},
		rec,
		nil,
	)
}

func TestEngineRunStoresExtractedPairs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSQLiteStore(t, filepath.Join(t.TempDir(), "texts.db"))
	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, request(10)).
		Return(scraper.FetchResponse{StatusCode: 200, Body: pageHTML("First passage.", "— First Author")}, nil)
	fetcher.On("Fetch", mock.Anything, request(11)).
		Return(scraper.FetchResponse{StatusCode: 200, Body: pageHTML("Second passage.", "— Second Author")}, nil)
	clock := &fakeClock{now: time.Unix(0, 0)}
	rec := &outcomeLog{}

	engine := newEngine(fetcher, store, clock, rec)
	stats, err := engine.Run(ctx, 10, 11)
	require.NoError(t, err)
	require.Equal(t, scraper.RunStats{Processed: 2, Stored: 2}, stats)

	got, err := store.Get(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, scraper.TextRecord{ID: 10, Text: "First passage.", Attribution: "— First Author"}, got)
	got, err = store.Get(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, scraper.TextRecord{ID: 11, Text: "Second passage.", Attribution: "— Second Author"}, got)

	require.Equal(t, []time.Duration{time.Second, time.Second}, clock.sleeps)
	require.Equal(t, []scraper.Outcome{scraper.OutcomeStored, scraper.OutcomeStored}, rec.outcomes)
	require.Equal(t, []scraper.Rule{scraper.RulePrimary, scraper.RulePrimary}, rec.rules)
	require.NoError(t, engine.Close())
	fetcher.AssertExpectations(t)
}

func TestEngineRunSingleIDRange(t *testing.T) {
	t.Parallel()

	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, request(5)).
		Return(scraper.FetchResponse{Body: pageHTML("five", "src")}, nil).Once()
	store := &storage.MockStore{}
	store.On("Upsert", mock.Anything, scraper.TextRecord{ID: 5, Text: "five", Attribution: "src"}).Return(nil).Once()
	clock := &fakeClock{}

	stats, err := newEngine(fetcher, store, clock, nil).Run(context.Background(), 5, 5)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Processed)
	require.Len(t, clock.sleeps, 1)
	fetcher.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestEngineRunSkipsUpsertWhenFetchFails(t *testing.T) {
	t.Parallel()

	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, request(1)).
		Return(scraper.FetchResponse{}, errors.New("status 404"))
	fetcher.On("Fetch", mock.Anything, request(2)).
		Return(scraper.FetchResponse{Body: pageHTML("two", "src")}, nil)
	fetcher.On("Fetch", mock.Anything, request(3)).
		Return(scraper.FetchResponse{}, context.DeadlineExceeded)
	store := &storage.MockStore{}
	store.On("Upsert", mock.Anything, scraper.TextRecord{ID: 2, Text: "two", Attribution: "src"}).Return(nil).Once()
	clock := &fakeClock{}
	rec := &outcomeLog{}

	stats, err := newEngine(fetcher, store, clock, rec).Run(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, scraper.RunStats{Processed: 3, Stored: 1, FetchFailed: 2}, stats)
	require.Equal(t,
		[]scraper.Outcome{scraper.OutcomeFetchFailed, scraper.OutcomeStored, scraper.OutcomeFetchFailed},
		rec.outcomes,
	)
	require.Len(t, clock.sleeps, 3)
	store.AssertNumberOfCalls(t, "Upsert", 1)
	store.AssertExpectations(t)
}

func TestEngineRunNoTextContinues(t *testing.T) {
	t.Parallel()

	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, request(1)).
		Return(scraper.FetchResponse{Body: []byte(`<html><body><p>too short</p></body></html>`)}, nil)
	long := "The " + strings.Repeat("x", 146)
	fetcher.On("Fetch", mock.Anything, request(2)).
		Return(scraper.FetchResponse{Body: []byte(`<p>` + long + `</p><p>— Author</p>`)}, nil)
	store := &storage.MockStore{}
	store.On("Upsert", mock.Anything, scraper.TextRecord{ID: 2, Text: long, Attribution: "— Author"}).Return(nil).Once()
	rec := &outcomeLog{}

	stats, err := newEngine(fetcher, store, &fakeClock{}, rec).Run(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, scraper.RunStats{Processed: 2, Stored: 1, NoText: 1}, stats)
	require.Equal(t, []scraper.Rule{"", scraper.RuleFallback}, rec.rules)
	store.AssertExpectations(t)
}

func TestEngineRunStoreFailureIsFatal(t *testing.T) {
	t.Parallel()

	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, request(1)).
		Return(scraper.FetchResponse{Body: pageHTML("one", "src")}, nil).Once()
	store := &storage.MockStore{}
	diskFull := errors.New("disk full")
	store.On("Upsert", mock.Anything, mock.Anything).Return(diskFull).Once()

	stats, err := newEngine(fetcher, store, &fakeClock{}, nil).Run(context.Background(), 1, 3)
	require.ErrorIs(t, err, diskFull)
	require.Equal(t, 0, stats.Processed)
	fetcher.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestEngineRunIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "texts.db")
	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, request(7)).
		Return(scraper.FetchResponse{Body: pageHTML("same passage", "same source")}, nil).Twice()

	for i := 0; i < 2; i++ {
		engine := newEngine(fetcher, newSQLiteStore(t, path), &fakeClock{}, nil)
		_, err := engine.Run(ctx, 7, 7)
		require.NoError(t, err)
		require.NoError(t, engine.Close())
	}

	store := newSQLiteStore(t, path)
	defer store.Close() //nolint:errcheck // test cleanup
	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, scraper.TextRecord{ID: 7, Text: "same passage", Attribution: "same source"}, got)
	_, err = store.Get(ctx, 8)
	require.ErrorIs(t, err, scraper.ErrNotFound)
	fetcher.AssertExpectations(t)
}

func TestEngineRunInvalidRange(t *testing.T) {
	t.Parallel()

	fetcher := &MockFetcher{}
	_, err := newEngine(fetcher, &storage.MockStore{}, &fakeClock{}, nil).Run(context.Background(), 6, 5)
	require.ErrorIs(t, err, scraper.ErrInvalidRange)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestEngineRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, request(1)).
		Return(scraper.FetchResponse{Body: pageHTML("one", "src")}, nil).Once()
	store := &storage.MockStore{}
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil).Once()
	clock := &fakeClock{onWait: cancel}

	stats, err := newEngine(fetcher, store, clock, nil).Run(ctx, 1, 100)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, scraper.RunStats{Processed: 1, Stored: 1}, stats)
	fetcher.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestEngineCloseClosesStore(t *testing.T) {
	t.Parallel()

	store := &storage.MockStore{}
	store.On("Close").Return(errors.New("already closed")).Once()

	err := newEngine(&MockFetcher{}, store, &fakeClock{}, nil).Close()
	require.ErrorContains(t, err, "already closed")
	store.AssertExpectations(t)
}
