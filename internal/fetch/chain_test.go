package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/repository"
)

type MockStrategy struct {
	name      string
	FetchFunc func(ctx context.Context, url string) (*entity.ParsedPage, error)
	Called    int
}

func (m *MockStrategy) Fetch(ctx context.Context, url string) (*entity.ParsedPage, error) {
	m.Called++
	return m.FetchFunc(ctx, url)
}

func (m *MockStrategy) Name() string { return m.name }

func stubPage(t *testing.T) *entity.ParsedPage {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>ok</body></html>"))
	require.NoError(t, err)
	return &entity.ParsedPage{Doc: doc, BaseURL: "https://shop.com"}
}

func TestChain_FirstStrategyWins(t *testing.T) {
	page := stubPage(t)
	first := &MockStrategy{name: "http", FetchFunc: func(ctx context.Context, url string) (*entity.ParsedPage, error) {
		return page, nil
	}}
	second := &MockStrategy{name: "headless", FetchFunc: func(ctx context.Context, url string) (*entity.ParsedPage, error) {
		t.Fatal("second strategy must not run")
		return nil, nil
	}}

	got, err := NewChain(first, second).Fetch(context.Background(), "https://shop.com/item")
	require.NoError(t, err)
	assert.Same(t, page, got)
	assert.Equal(t, 1, first.Called)
	assert.Equal(t, 0, second.Called)
}

func TestChain_FallsThroughToLaterStrategy(t *testing.T) {
	page := stubPage(t)
	first := &MockStrategy{name: "http", FetchFunc: func(ctx context.Context, url string) (*entity.ParsedPage, error) {
		return nil, errors.New("bad status code: 403")
	}}
	second := &MockStrategy{name: "headless", FetchFunc: func(ctx context.Context, url string) (*entity.ParsedPage, error) {
		return page, nil
	}}

	got, err := NewChain(first, second).Fetch(context.Background(), "https://shop.com/item")
	require.NoError(t, err)
	assert.Same(t, page, got)
	assert.Equal(t, 1, first.Called)
	assert.Equal(t, 1, second.Called)
}

func TestChain_AllStrategiesFail(t *testing.T) {
	first := &MockStrategy{name: "http", FetchFunc: func(ctx context.Context, url string) (*entity.ParsedPage, error) {
		return nil, errors.New("bad status code: 403")
	}}
	second := &MockStrategy{name: "headless", FetchFunc: func(ctx context.Context, url string) (*entity.ParsedPage, error) {
		return nil, errors.New("render timed out")
	}}

	got, err := NewChain(first, second).Fetch(context.Background(), "https://shop.com/item")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrFetchExhausted)
	assert.Contains(t, err.Error(), "http: bad status code: 403")
	assert.Contains(t, err.Error(), "headless: render timed out")
}
