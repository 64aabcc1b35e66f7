package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/shopscout-service/internal/entity"
)

type MockVisitedRepo struct {
	Visited       map[string]bool
	MarkCalled    int
	RemoveCalled  int
	IsVisitedFunc func(ctx context.Context, url string) (bool, error)
}

func newMockVisitedRepo() *MockVisitedRepo {
	return &MockVisitedRepo{Visited: map[string]bool{}}
}

func (m *MockVisitedRepo) MarkVisited(ctx context.Context, url string, expiry time.Duration) error {
	m.MarkCalled++
	m.Visited[url] = true
	return nil
}

func (m *MockVisitedRepo) IsVisited(ctx context.Context, url string) (bool, error) {
	if m.IsVisitedFunc != nil {
		return m.IsVisitedFunc(ctx, url)
	}
	return m.Visited[url], nil
}

func (m *MockVisitedRepo) RemoveVisited(ctx context.Context, url string) error {
	m.RemoveCalled++
	delete(m.Visited, url)
	return nil
}

func TestIngestor_SubmitBatch(t *testing.T) {
	visited := newMockVisitedRepo()
	visited.Visited["https://shop.com/seen"] = true
	queue := &MockQueue{}

	summary, err := NewIngestor(visited, queue).SubmitBatch(context.Background(), []entity.HistoryItem{
		{URL: "https://shop.com/new"},
		{URL: "https://shop.com/seen"},
		{Title: "entry with no url"},
	}, false)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Received)
	assert.Equal(t, 1, summary.Queued)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 1, summary.Invalid)

	require.Len(t, queue.Pending, 1)
	assert.Equal(t, "https://shop.com/new", queue.Pending[0].URL)
	assert.True(t, visited.Visited["https://shop.com/new"], "queued URLs are marked to dedup the next upload")
}

func TestIngestor_SubmitBatch_ForceBypassesDedup(t *testing.T) {
	visited := newMockVisitedRepo()
	visited.Visited["https://shop.com/seen"] = true
	queue := &MockQueue{}

	summary, err := NewIngestor(visited, queue).SubmitBatch(context.Background(), []entity.HistoryItem{
		{URL: "https://shop.com/seen"},
	}, true)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Queued)
	assert.Equal(t, 0, summary.Duplicates)
	assert.Equal(t, 1, visited.RemoveCalled)
	assert.Len(t, queue.Pending, 1)
}

func TestIngestor_SubmitBatch_QueueFailureIsFatal(t *testing.T) {
	queue := &MockQueue{
		PushPendingFunc: func(ctx context.Context, item entity.HistoryItem) error {
			return errors.New("redis down")
		},
	}

	summary, err := NewIngestor(newMockVisitedRepo(), queue).SubmitBatch(context.Background(), []entity.HistoryItem{
		{URL: "https://shop.com/item"},
	}, false)

	require.Error(t, err)
	assert.Equal(t, 0, summary.Queued)
}

func TestIngestor_QueueSize(t *testing.T) {
	queue := &MockQueue{Pending: []entity.HistoryItem{{URL: "a"}, {URL: "b"}}}

	size, err := NewIngestor(newMockVisitedRepo(), queue).QueueSize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)
}
