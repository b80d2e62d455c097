package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/howto"
	"github.com/fwojciec/howto/bloom"
	"github.com/fwojciec/howto/crawl"
	"github.com/fwojciec/howto/fs"
	"github.com/fwojciec/howto/gemini"
	"github.com/fwojciec/howto/goquery"
	howtohttp "github.com/fwojciec/howto/http"
	"github.com/fwojciec/howto/readability"
	"github.com/fwojciec/howto/rod"
	hslog "github.com/fwojciec/howto/slog"
	"github.com/fwojciec/howto/sqlite"
	"github.com/fwojciec/howto/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, opened by the commands that need one.
	DB *sqlite.DB

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program, shutting down browsers and the
// database in reverse order of creation.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i]())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("howto"),
		kong.Description("Extract how-to guides from web pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'howto --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)
	defer m.Close()

	switch strings.Fields(kongCtx.Command())[0] {
	case "crawl":
		err = m.wireCrawl(deps, &cli.Crawl)
	case "extract":
		err = m.wireExtract(deps, &cli.Extract)
	case "links":
		err = m.wireLinks(deps, &cli.Links)
	case "locate-tools":
		err = m.wireLocateTools(deps)
	case "list":
		err = m.wireList(deps, &cli.List)
	}
	if err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (m *Main) wireCrawl(deps *Dependencies, c *CrawlCmd) error {
	fetcher, err := m.newFetcher(deps, c.FetchFlags)
	if err != nil {
		return err
	}
	deps.Fetcher = fetcher
	deps.Extractor = hslog.NewLoggingExtractor(newExtractor(c.Fallback), deps.Logger)

	store, err := m.openStore(deps, c)
	if err != nil {
		return err
	}
	deps.Store = hslog.NewLoggingStore(store, deps.Logger)

	limiter := crawl.NewDomainLimiter(c.MinDelay, c.MaxDelay)
	deps.Crawler = &crawl.Crawler{
		Fetcher:     deps.Fetcher,
		Extractor:   deps.Extractor,
		Store:       deps.Store,
		RateLimiter: limiter,
		Seen:        bloom.NewFilter(bloom.DefaultExpectedURLs, bloom.DefaultFalsePositiveRate),
		Concurrency: c.Concurrency,
	}

	if c.BrowserFallback && !c.Browser {
		fallback, err := m.newFetcher(deps, FetchFlags{Browser: true, Timeout: c.Timeout, RecycleAfter: c.RecycleAfter})
		if err != nil {
			return err
		}
		deps.Crawler.Fallback = fallback
	}

	if c.Sitemap {
		deps.Discoverer = &crawl.Discoverer{
			Sitemaps: hslog.NewLoggingSitemapService(howtohttp.NewSitemapService(nil), deps.Logger),
			Fetcher:  deps.Fetcher,
			Links:    hslog.NewLoggingLinkFinder(goquery.LinkFinder{}, deps.Logger),
			// Seed pages share the crawl's per-domain pacing.
			RateLimiter: limiter,
			Logger: func(format string, args ...any) {
				deps.Logger.Debug(fmt.Sprintf(format, args...))
			},
		}
	}

	return nil
}

func (m *Main) wireExtract(deps *Dependencies, c *ExtractCmd) error {
	if isURL(c.Source) {
		fetcher, err := m.newFetcher(deps, c.FetchFlags)
		if err != nil {
			return err
		}
		deps.Fetcher = fetcher
	}
	extractor := newExtractor(c.Fallback)
	deps.Extractor = extractor
	deps.Explainer = extractor
	return nil
}

func (m *Main) wireLinks(deps *Dependencies, c *LinksCmd) error {
	fetcher, err := m.newFetcher(deps, c.FetchFlags)
	if err != nil {
		return err
	}
	deps.Fetcher = fetcher
	deps.Links = goquery.LinkFinder{}
	return nil
}

func (m *Main) wireLocateTools(deps *Dependencies) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(deps.Stderr, "Hint: get an API key at https://aistudio.google.com/apikey")
		return fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(deps.Ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	deps.Locator = hslog.NewLoggingToolLocator(gemini.NewLocator(client.Models), deps.Logger)
	return nil
}

func (m *Main) wireList(deps *Dependencies, c *ListCmd) error {
	db, err := m.openDB(deps, c.DB)
	if err != nil {
		return err
	}
	deps.Guides = sqlite.NewGuideService(db)
	return nil
}

// newFetcher returns a logging HTTP or headless Chrome fetcher.
func (m *Main) newFetcher(deps *Dependencies, flags FetchFlags) (howto.Fetcher, error) {
	var f howto.Fetcher
	renderer := "http"
	if flags.Browser {
		renderer = "browser"
		rf, err := rod.NewFetcher(
			rod.WithTimeout(flags.Timeout),
			rod.WithBrowserRecycling(flags.RecycleAfter),
		)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		f = rf
	} else {
		f = howtohttp.NewFetcher(howtohttp.WithTimeout(flags.Timeout))
	}
	m.closers = append(m.closers, f.Close)
	return hslog.NewLoggingFetcher(f, deps.Logger, renderer), nil
}

// openStore picks the guide store: --db, then --dir, then --output.
func (m *Main) openStore(deps *Dependencies, c *CrawlCmd) (howto.GuideStore, error) {
	switch {
	case c.DB != "":
		db, err := m.openDB(deps, c.DB)
		if err != nil {
			return nil, err
		}
		return sqlite.NewGuideStore(db), nil
	case c.Dir != "":
		dir := filepath.Clean(c.Dir)
		return fs.NewDirStore(filepath.Dir(dir), filepath.Base(dir)), nil
	default:
		return fs.NewJSONStore(c.Output), nil
	}
}

func (m *Main) openDB(deps *Dependencies, path string) (*sqlite.DB, error) {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Set HOWTO_DB to use a different database path")
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.closers = append(m.closers, m.DB.Close)
	return m.DB, nil
}

func newExtractor(fallback string) *goquery.Extractor {
	switch fallback {
	case "trafilatura":
		return goquery.NewExtractor(goquery.WithContentExtractor(trafilatura.NewExtractor()))
	case "readability":
		return goquery.NewExtractor(goquery.WithContentExtractor(readability.NewExtractor()))
	default:
		return goquery.NewExtractor()
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
