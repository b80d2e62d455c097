package mock

import (
	"context"

	"github.com/fwojciec/howto"
)

var _ howto.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of howto.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *howto.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *howto.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ howto.GuideLinkFinder = (*GuideLinkFinder)(nil)

// GuideLinkFinder is a mock implementation of howto.GuideLinkFinder.
type GuideLinkFinder struct {
	FindGuideLinksFn func(html, baseURL string) ([]string, error)
}

func (f *GuideLinkFinder) FindGuideLinks(html, baseURL string) ([]string, error) {
	return f.FindGuideLinksFn(html, baseURL)
}
