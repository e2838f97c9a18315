package mock

import (
	"context"

	"github.com/fwojciec/sitevec/crawl"
)

// Crawler is a mock of a crawl entry point such as *crawl.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, seedURL string, progress crawl.ProgressFunc) (*crawl.Result, error)
}

func (c *Crawler) Crawl(ctx context.Context, seedURL string, progress crawl.ProgressFunc) (*crawl.Result, error) {
	return c.CrawlFn(ctx, seedURL, progress)
}
