package mock

import (
	"context"

	"github.com/fwojciec/sitevec"
)

var _ sitevec.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of sitevec.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL)
}
