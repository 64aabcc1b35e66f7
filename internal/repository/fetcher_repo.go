package repository

import (
	"context"

	"github.com/user/shopscout-service/internal/entity"
)

// FetchStrategy is one way of turning a URL into a parsed page. Strategies
// are tried in order by the fetcher chain; a strategy reports failure through
// its error return and must not retry internally.
type FetchStrategy interface {
	// Fetch retrieves and parses the page at url.
	Fetch(ctx context.Context, url string) (*entity.ParsedPage, error)
	// Name identifies the strategy in logs and metrics.
	Name() string
}

// ScreenshotRepository renders a page and writes a screenshot image.
type ScreenshotRepository interface {
	// Capture renders url and saves a screenshot to outputPath.
	Capture(ctx context.Context, url, outputPath string) error
}
