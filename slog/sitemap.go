package slog

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/howto"
)

// maxSections bounds the sections listed in a discovery log line.
const maxSections = 5

// Ensure LoggingSitemapService implements howto.SitemapService.
var _ howto.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each sitemap discovery: how many guide
// candidates a site yielded and which sections of the site they came from.
type LoggingSitemapService struct {
	next   howto.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next howto.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service. Failures are logged at
// Warn since the caller falls back to category page links.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *howto.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Warn("sitemap discovery",
				"site", baseURL,
				"duration", time.Since(begin),
				"code", howto.ErrorCode(err),
				"err", err,
			)
			return
		}
		s.logger.Info("sitemap discovery",
			"site", baseURL,
			"candidates", len(urls),
			"filtered", filter != nil,
			"sections", sectionSummary(urls),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}

// sectionSummary counts URLs by their first path segment, e.g.
// "guide=12 blog=3", largest sections first.
func sectionSummary(urls []string) string {
	counts := make(map[string]int)
	for _, raw := range urls {
		section := "/"
		if u, err := url.Parse(raw); err == nil {
			if first, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/"); first != "" {
				section = first
			}
		}
		counts[section]++
	}

	sections := make([]string, 0, len(counts))
	for section := range counts {
		sections = append(sections, section)
	}
	slices.SortFunc(sections, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	parts := make([]string, 0, maxSections+1)
	for i, section := range sections {
		if i == maxSections {
			parts = append(parts, fmt.Sprintf("+%d more", len(sections)-maxSections))
			break
		}
		parts = append(parts, fmt.Sprintf("%s=%d", section, counts[section]))
	}
	return strings.Join(parts, " ")
}
