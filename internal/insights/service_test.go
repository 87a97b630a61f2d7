package insights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/queue"
	"github.com/iliyamo/finance-flow/internal/repository"
)

type fakeStore struct {
	mu       sync.Mutex
	records  map[string]model.InsightRecord
	spending []repository.CategorySpend
	count    int
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: map[string]model.InsightRecord{},
		spending: []repository.CategorySpend{
			{Category: "Food", Amount: "120.00"},
			{Category: "Transport", Amount: "30.00"},
		},
		count: 8,
	}
}

func (f *fakeStore) Spending(_ context.Context, _ string) ([]repository.CategorySpend, error) {
	return f.spending, nil
}

func (f *fakeStore) CountTransactions(_ context.Context, _ string) (int, error) {
	return f.count, nil
}

func (f *fakeStore) LatestInsight(_ context.Context, userID string) (model.InsightRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[userID]
	if !ok {
		return model.InsightRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) SaveInsight(_ context.Context, rec model.InsightRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[rec.UserID] = rec
	return nil
}

type failingAdapter struct{}

func (failingAdapter) GenerateInsights(context.Context, Request) (Response, error) {
	return Response{}, errors.New("model unavailable")
}

func TestRequestQueuesAndProcesses(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store, MockAdapter{}, 24*time.Hour, nil)

	jobID, cached, err := svc.Request(ctx, "u1", "", "")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotEmpty(t, jobID)

	require.Eventually(t, func() bool {
		_, err := store.LatestInsight(ctx, "u1")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	rec, err := svc.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.UserID)
	assert.NotEmpty(t, rec.Insights)
	assert.Len(t, rec.Suggestions, 3)
	// Food is 80% of spend, so the mock flags it.
	assert.Contains(t, rec.Flags, "High spend in Food")
	assert.False(t, rec.GeneratedAt.IsZero())
}

func TestRequestWithinFreshnessWindowIsCached(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.records["u1"] = model.InsightRecord{
		UserID:      "u1",
		Insights:    "existing",
		GeneratedAt: time.Now().UTC().Add(-time.Hour),
	}
	svc := NewService(store, MockAdapter{}, 24*time.Hour, nil)

	jobID, cached, err := svc.Request(ctx, "u1", "", "")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Empty(t, jobID)
}

func TestRequestRegeneratesStaleRecord(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.records["u1"] = model.InsightRecord{
		UserID:      "u1",
		Insights:    "stale",
		GeneratedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	svc := NewService(store, MockAdapter{}, 24*time.Hour, nil)

	_, cached, err := svc.Request(ctx, "u1", "", "")
	require.NoError(t, err)
	assert.False(t, cached)

	require.Eventually(t, func() bool {
		rec, err := store.LatestInsight(ctx, "u1")
		return err == nil && rec.Insights != "stale"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAdapterFailureDropsJob(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store, failingAdapter{}, 24*time.Hour, nil)

	_, cached, err := svc.Request(ctx, "u1", "", "")
	require.NoError(t, err)
	assert.False(t, cached)

	// The failed job leaves no record behind and the worker goes idle, so a
	// later request can queue again.
	assert.Never(t, func() bool {
		_, err := store.LatestInsight(ctx, "u1")
		return err == nil
	}, 300*time.Millisecond, 25*time.Millisecond)

	_, cached, err = svc.Request(ctx, "u1", "", "")
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestPublishReceivesEvent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	events := make(chan queue.InsightGeneratedEvent, 1)
	publish := func(_ context.Context, e queue.InsightGeneratedEvent) error {
		events <- e
		return nil
	}
	svc := NewService(store, MockAdapter{}, 24*time.Hour, publish)

	_, _, err := svc.Request(ctx, "u1", "", "")
	require.NoError(t, err)

	select {
	case e := <-events:
		assert.Equal(t, "u1", e.UserID)
		assert.Equal(t, 8, e.TransactionCount)
		assert.Equal(t, 3, e.SuggestionCount)
		generated, perr := time.Parse(time.RFC3339, e.GeneratedAt)
		require.NoError(t, perr)
		assert.WithinDuration(t, time.Now().UTC(), generated, time.Minute)
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
}

func TestRequestHonorsExplicitPeriod(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store, MockAdapter{}, 24*time.Hour, nil)

	_, _, err := svc.Request(ctx, "u1", "2025-01-01", "2025-01-31")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := store.LatestInsight(ctx, "u1")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	rec, err := store.LatestInsight(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", rec.PeriodStart)
	assert.Equal(t, "2025-01-31", rec.PeriodEnd)
}

func TestConcurrentRequestsSingleWorker(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store, MockAdapter{}, 24*time.Hour, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Request(ctx, "u1", "", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		_, err := store.LatestInsight(ctx, "u1")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}
