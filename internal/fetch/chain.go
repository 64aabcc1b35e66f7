package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/repository"
	"github.com/user/shopscout-service/pkg/metrics"
)

// Chain tries an ordered list of fetch strategies and returns the first
// parsed page. Strategies run sequentially so the expensive headless
// renderers are only reached after the cheap HTTP fetch has failed.
type Chain struct {
	strategies []repository.FetchStrategy
}

// NewChain builds a chain over the given strategies, tried in order.
func NewChain(strategies ...repository.FetchStrategy) *Chain {
	return &Chain{strategies: strategies}
}

// Fetch returns the first successful parse. When every strategy fails the
// error wraps ErrFetchExhausted plus each strategy's failure.
func (c *Chain) Fetch(ctx context.Context, url string) (*entity.ParsedPage, error) {
	var failures []error
	for _, s := range c.strategies {
		page, err := s.Fetch(ctx, url)
		if err != nil {
			slog.Warn("Fetch strategy failed", "strategy", s.Name(), "url", url, "error", err)
			countStrategy(s.Name(), "failure")
			failures = append(failures, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		slog.Info("Fetched page", "strategy", s.Name(), "url", url)
		countStrategy(s.Name(), "success")
		return page, nil
	}
	return nil, fmt.Errorf("%w: %w", repository.ErrFetchExhausted, errors.Join(failures...))
}

// Collectors are nil until metrics.Init runs.
func countStrategy(name, outcome string) {
	if metrics.FetchStrategyTotal != nil {
		metrics.FetchStrategyTotal.WithLabelValues(name, outcome).Inc()
	}
}
