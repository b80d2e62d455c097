package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/howto"
)

// maxSitemapDepth bounds how deeply sitemap indexes may nest.
const maxSitemapDepth = 3

// Ensure SitemapService implements howto.SitemapService at compile time.
var _ howto.SitemapService = (*SitemapService)(nil)

// SitemapService discovers guide URLs from website sitemaps via HTTP.
type SitemapService struct {
	client     *http.Client
	userAgents []string
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithSitemapUserAgents replaces the User-Agent rotation list used for
// robots.txt and sitemap requests.
func WithSitemapUserAgents(agents ...string) SitemapOption {
	return func(s *SitemapService) {
		s.userAgents = agents
	}
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, a client with DefaultFetchTimeout is used.
func NewSitemapService(client *http.Client, opts ...SitemapOption) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	s := &SitemapService{client: client, userAgents: howto.UserAgents}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverURLs returns the page URLs listed in the sitemaps of baseURL's
// host, deduplicated in sitemap order. Sitemaps are taken from robots.txt
// when it declares any, else /sitemap.xml is tried. An empty (non-nil)
// slice is returned when the site has no sitemap.
//
// When baseURL has a non-root path (e.g. https://example.com/workshop/),
// only URLs below that path are returned. filter is applied last.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *howto.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return nil, howto.Errorf(howto.EINVALID, "invalid base URL: %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.sitemapLocations(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		svc:      s,
		sitemaps: make(map[string]bool),
		urls:     make(map[string]bool),
		keep: func(u string) bool {
			return underPath(u, base.Path) && filter.Match(u)
		},
		found: []string{},
	}
	for _, loc := range sitemaps {
		if err := w.visit(ctx, loc, 0); err != nil {
			return nil, err
		}
	}
	return w.found, nil
}

// sitemapLocations returns the sitemaps declared in robots.txt, or
// /sitemap.xml if robots.txt declares none.
func (s *SitemapService) sitemapLocations(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	body, err := s.get(ctx, robots)
	if err == nil {
		defer body.Close()
		var locs []string
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if len(line) > 8 && strings.EqualFold(line[:8], "sitemap:") {
				if loc := strings.TrimSpace(line[8:]); loc != "" {
					locs = append(locs, loc)
				}
			}
		}
		if len(locs) > 0 {
			return locs, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}, nil
}

// sitemapWalk holds the state of one DiscoverURLs call.
type sitemapWalk struct {
	svc      *SitemapService
	sitemaps map[string]bool
	urls     map[string]bool
	keep     func(string) bool
	found    []string
}

// visit reads one sitemap or sitemap index. A sitemap that does not exist
// is skipped; one that exists but cannot be parsed is an error.
func (w *sitemapWalk) visit(ctx context.Context, loc string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.sitemaps[loc] || depth > maxSitemapDepth {
		return nil
	}
	w.sitemaps[loc] = true

	body, err := w.svc.get(ctx, loc)
	if howto.ErrorCode(err) == howto.ENOTFOUND {
		return nil
	} else if err != nil {
		return err
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(strings.ToLower(loc), ".gz") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return fmt.Errorf("reading %s: %w", loc, err)
		}
		defer gz.Close()
		r = gz
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return fmt.Errorf("parsing sitemap %s: %w", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("parsing sitemap %s: empty document", loc)
	}

	if root.Tag == "sitemapindex" {
		for _, child := range locs(root, "sitemap") {
			if err := w.visit(ctx, child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, u := range locs(root, "url") {
		if w.urls[u] || !w.keep(u) {
			continue
		}
		w.urls[u] = true
		w.found = append(w.found, u)
	}
	return nil
}

// locs returns the non-blank <loc> values of root's children named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if v := strings.TrimSpace(loc.Text()); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// underPath reports whether rawURL's path lies below prefix, respecting
// path boundaries: /guides matches /guides/ and /guides/shelf but not
// /guidesbook.
func underPath(rawURL, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(u.Path, prefix) || u.Path+"/" == prefix
}

// get fetches targetURL and returns its body. Returns ENOTFOUND for 404
// and 410 responses.
func (s *SitemapService) get(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if ua := howto.RandomUserAgent(s.userAgents); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusNotFound, http.StatusGone:
		resp.Body.Close()
		return nil, howto.Errorf(howto.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, targetURL)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}
}
