package crawl_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/fwojciec/howto"
	"github.com/fwojciec/howto/crawl"
	"github.com/fwojciec/howto/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	noLinks := &mock.GuideLinkFinder{
		FindGuideLinksFn: func(string, string) ([]string, error) {
			return nil, errors.New("should not scan links")
		},
	}

	t.Run("uses sitemap URLs when available", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, baseURL string, _ *howto.URLFilter) ([]string, error) {
					return []string{baseURL + "guide/a", baseURL + "guide/b"}, nil
				},
			},
			Links:       noLinks,
			RetryDelays: noDelays,
		}

		urls, err := d.Discover(context.Background(), []string{"https://example.com/"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/guide/a", "https://example.com/guide/b"}, urls)
	})

	t.Run("falls back to page links when sitemap is empty", func(t *testing.T) {
		t.Parallel()

		// Given: no sitemap and a category page linking to guides
		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(context.Context, string, *howto.URLFilter) ([]string, error) {
					return []string{}, nil
				},
			},
			Fetcher: pageFetcher(map[string]string{"https://example.com/wood/": "<html>category</html>"}),
			Links: &mock.GuideLinkFinder{
				FindGuideLinksFn: func(html, baseURL string) ([]string, error) {
					assert.Equal(t, "<html>category</html>", html)
					return []string{"https://example.com/guide/shelf", "https://example.com/shop/saw"}, nil
				},
			},
			RetryDelays: noDelays,
		}
		filter := &howto.URLFilter{Include: []*regexp.Regexp{regexp.MustCompile(`/guide/`)}}

		// When: discovering
		urls, err := d.Discover(context.Background(), []string{"https://example.com/wood/"}, filter)

		// Then: only filtered guide links are returned
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/guide/shelf"}, urls)
	})

	t.Run("falls back to page links when sitemap fails", func(t *testing.T) {
		t.Parallel()

		var logged []string
		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(context.Context, string, *howto.URLFilter) ([]string, error) {
					return nil, errors.New("HTTP 500")
				},
			},
			Fetcher: pageFetcher(map[string]string{"https://example.com/": "home"}),
			Links: &mock.GuideLinkFinder{
				FindGuideLinksFn: func(string, string) ([]string, error) {
					return []string{"https://example.com/guide/lamp"}, nil
				},
			},
			RetryDelays: noDelays,
			Logger: func(format string, _ ...any) {
				logged = append(logged, format)
			},
		}

		urls, err := d.Discover(context.Background(), []string{"https://example.com/"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/guide/lamp"}, urls)
		assert.Len(t, logged, 1)
	})

	t.Run("deduplicates across seeds", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{
			Fetcher: pageFetcher(map[string]string{
				"https://example.com/a": "a",
				"https://example.com/b": "b",
			}),
			Links: &mock.GuideLinkFinder{
				FindGuideLinksFn: func(html, _ string) ([]string, error) {
					return []string{"https://example.com/guide/shared", "https://example.com/guide/" + html}, nil
				},
			},
			RetryDelays: noDelays,
		}

		urls, err := d.Discover(context.Background(), []string{"https://example.com/a", "https://example.com/b"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/guide/shared",
			"https://example.com/guide/a",
			"https://example.com/guide/b",
		}, urls)
	})

	t.Run("rate limits the seed fetch", func(t *testing.T) {
		t.Parallel()

		var domain string
		d := &crawl.Discoverer{
			Fetcher: pageFetcher(map[string]string{"https://example.com/a": "a"}),
			Links: &mock.GuideLinkFinder{
				FindGuideLinksFn: func(string, string) ([]string, error) { return nil, nil },
			},
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, d string) error {
					domain = d
					return nil
				},
			},
			RetryDelays: noDelays,
		}

		_, err := d.Discover(context.Background(), []string{"https://example.com/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, "example.com", domain)
	})

	t.Run("returns error when the seed cannot be fetched", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{
			Fetcher:     pageFetcher(nil),
			Links:       noLinks,
			RetryDelays: noDelays,
		}

		_, err := d.Discover(context.Background(), []string{"https://example.com/gone"}, nil)

		require.Error(t, err)
		assert.Equal(t, howto.ENOTFOUND, howto.ErrorCode(err))
	})

	t.Run("rejects relative seeds", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{Links: noLinks}

		_, err := d.Discover(context.Background(), []string{"/category"}, nil)

		assert.Equal(t, howto.EINVALID, howto.ErrorCode(err))
	})
}
