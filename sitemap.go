package howto

import (
	"context"
	"regexp"
)

// SitemapService lists the guide pages a site publishes in its sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the page URLs listed for the site at baseURL.
	// Sitemaps named in robots.txt are read first, then /sitemap.xml;
	// sitemap indexes are followed. A nil filter keeps every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter narrows discovered URLs to guide pages, e.g. Include `/guide/`
// and Exclude `/guide/.*/comments`.
type URLFilter struct {
	// Include keeps only URLs matching at least one pattern, when set.
	Include []*regexp.Regexp

	// Exclude drops URLs matching any pattern. Applied after Include.
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns. Returns nil when
// both lists are empty, and EINVALID naming the first bad pattern.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}

	f := &URLFilter{}
	var err error
	if f.Include, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if f.Exclude, err = compilePatterns(exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid filter pattern %q: %v", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Match reports whether url passes the filter. A nil filter passes
// everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 && !matchesAny(f.Include, url) {
		return false
	}
	return !matchesAny(f.Exclude, url)
}

// Apply returns the URLs that pass the filter, in order.
func (f *URLFilter) Apply(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if f.Match(u) {
			out = append(out, u)
		}
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// GuideLinkFinder finds links to guides on a category or listing page.
type GuideLinkFinder interface {
	FindGuideLinks(html, baseURL string) ([]string, error)
}
