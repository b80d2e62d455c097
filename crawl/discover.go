package crawl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fwojciec/howto"
)

// Discoverer turns seed URLs (site roots or category pages) into guide URLs.
// Each seed is first looked up in the site's sitemap; when the sitemap
// yields nothing, the seed page itself is fetched and scanned for links to
// guides.
type Discoverer struct {
	// Sitemaps, if set, is consulted before falling back to link scanning.
	Sitemaps howto.SitemapService

	Fetcher     howto.Fetcher
	Links       howto.GuideLinkFinder
	RateLimiter howto.DomainLimiter
	RetryDelays []time.Duration

	// Logger, if set, receives sitemap fallbacks and retry attempts.
	Logger LogFunc
}

// Discover returns the guide URLs reachable from seeds that pass filter,
// deduplicated, in discovery order.
func (d *Discoverer) Discover(ctx context.Context, seeds []string, filter *howto.URLFilter) ([]string, error) {
	seen := make(map[string]bool)
	urls := make([]string, 0)

	for _, seed := range seeds {
		found, err := d.discoverSeed(ctx, seed, filter)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			if seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
		}
	}

	return urls, nil
}

func (d *Discoverer) discoverSeed(ctx context.Context, seed string, filter *howto.URLFilter) ([]string, error) {
	if d.Sitemaps != nil {
		urls, err := d.Sitemaps.DiscoverURLs(ctx, seed, filter)
		if err == nil && len(urls) > 0 {
			return urls, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.Logger != nil {
			d.Logger("no sitemap URLs for %s, scanning page links", seed)
		}
	}

	u, err := url.Parse(seed)
	if err != nil || u.Host == "" {
		return nil, howto.Errorf(howto.EINVALID, "invalid seed URL %q", seed)
	}
	if d.RateLimiter != nil {
		if err := d.RateLimiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := d.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, seed, d.Fetcher.Fetch, d.Logger, delays)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", seed, err)
	}

	links, err := d.Links.FindGuideLinks(html, seed)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(links))
	for _, link := range links {
		if filter.Match(link) {
			urls = append(urls, link)
		}
	}
	return urls, nil
}
