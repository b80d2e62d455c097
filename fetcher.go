package howto

import (
	"context"
	"math/rand/v2"
)

// Fetcher retrieves HTML pages from URLs.
// Network, timeout and HTTP status handling live behind this interface;
// the extraction pipeline only ever sees the returned HTML.
type Fetcher interface {
	// Fetch returns the HTML content of the page at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// ExtractResult holds the main content of an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// ContentExtractor isolates the main content of an HTML page, removing
// boilerplate. The guide extractor uses it as a last resort for locating
// step text on pages without recognizable step markup.
type ContentExtractor interface {
	Extract(html string) (*ExtractResult, error)
}

// AcceptLanguage is sent with every page request.
const AcceptLanguage = "en-US,en;q=0.9"

// UserAgents is the browser User-Agent rotation shared by the fetchers.
// Each request picks one at random.
var UserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.101 Safari/537.36",
}

// RandomUserAgent returns one entry of agents chosen uniformly at random,
// or an empty string for an empty list.
func RandomUserAgent(agents []string) string {
	if len(agents) == 0 {
		return ""
	}
	return agents[rand.IntN(len(agents))]
}
