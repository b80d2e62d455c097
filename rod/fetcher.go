// Package rod implements howto.Fetcher with headless Chrome for guide
// sites that render their steps with JavaScript.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/howto"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds one page load.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements howto.Fetcher at compile time.
var _ howto.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Each page is opened with a User-Agent from the rotation list.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager    *BrowserManager
	timeout    time.Duration
	userAgents []string
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

type fetcherConfig struct {
	timeout    time.Duration
	userAgents []string
	manager    []ManagerOption
}

// WithTimeout sets the page load timeout. Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithUserAgents replaces the User-Agent rotation list.
func WithUserAgents(agents ...string) Option {
	return func(c *fetcherConfig) {
		c.userAgents = agents
	}
}

// WithBrowserRecycling restarts Chrome after n pages. Zero disables
// recycling. Defaults to DefaultMaxPages.
func WithBrowserRecycling(n int) Option {
	return func(c *fetcherConfig) {
		c.manager = append(c.manager, WithMaxPages(n))
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	cfg := fetcherConfig{
		timeout:    DefaultFetchTimeout,
		userAgents: howto.UserAgents,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	manager, err := NewBrowserManager(cfg.manager...)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		manager:    manager,
		timeout:    cfg.timeout,
		userAgents: cfg.userAgents,
	}, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return "", err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	if ua := howto.RandomUserAgent(f.userAgents); ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      ua,
			AcceptLanguage: howto.AcceptLanguage,
		}); err != nil {
			return "", fmt.Errorf("setting user agent: %w", err)
		}
	}

	page = page.Context(ctx).Timeout(f.timeout)

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("loading %s: %w", url, err)
	}

	return page.HTML()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
