package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/howto"
	"github.com/fwojciec/howto/crawl"
	"github.com/fwojciec/howto/goquery"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Fetcher    howto.Fetcher
	Extractor  howto.GuideExtractor
	Explainer  Explainer
	Links      howto.GuideLinkFinder
	Store      howto.GuideStore
	Guides     howto.GuideService
	Locator    howto.ToolLocator
	Crawler    *crawl.Crawler
	Discoverer *crawl.Discoverer
}

// Explainer reports which extraction rule produced each field.
type Explainer interface {
	Explain(html, sourceURL string) (*goquery.Explanation, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Crawl       CrawlCmd       `cmd:"" help:"Crawl guide pages and save the extracted guides"`
	Extract     ExtractCmd     `cmd:"" help:"Extract one guide from a URL or HTML file"`
	Links       LinksCmd       `cmd:"" help:"List guide links found on a category page"`
	LocateTools LocateToolsCmd `cmd:"" name:"locate-tools" help:"Locate tools in a guide image with Gemini"`
	List        ListCmd        `cmd:"" help:"List guides stored in the database"`
}

// FetchFlags configure how pages are fetched.
type FetchFlags struct {
	Browser bool          `help:"Fetch pages with headless Chrome"`
	Timeout time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`

	// RecycleAfter matches rod.DefaultMaxPages.
	RecycleAfter int `name:"recycle-after" default:"75" help:"Restart headless Chrome after this many pages (0 never restarts)"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	FetchFlags `embed:""`

	URLs            []string      `arg:"" name:"url" help:"Guide URLs, or site and category URLs with --sitemap"`
	Output          string        `short:"o" default:"guides.json" help:"JSON file to write guides to"`
	Dir             string        `type:"path" help:"Write one JSON file per guide under this directory"`
	DB              string        `name:"db" env:"HOWTO_DB" help:"Store guides in this SQLite database"`
	Sitemap         bool          `help:"Discover guide URLs from sitemaps or category pages"`
	Filter          []string      `short:"F" name:"filter" sep:"none" help:"Keep only URLs matching this regex (repeatable)"`
	Exclude         []string      `short:"X" name:"exclude" sep:"none" help:"Drop URLs matching this regex (repeatable)"`
	BrowserFallback bool          `help:"Re-fetch pages without steps using headless Chrome"`
	Concurrency     int           `short:"c" default:"1" help:"Concurrent fetch limit"`
	MinDelay        time.Duration `default:"2s" help:"Minimum delay between requests to one domain"`
	MaxDelay        time.Duration `default:"5s" help:"Maximum delay between requests to one domain"`
	Fallback        string        `enum:"none,trafilatura,readability" default:"none" help:"Content extractor used when steps are not marked up (none, trafilatura, readability)"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	FetchFlags `embed:""`

	Source   string `arg:"" help:"Guide URL or path to a saved HTML file"`
	URL      string `name:"url" help:"Source URL of a saved HTML file, used to resolve images"`
	Explain  bool   `help:"Show which rule matched each field instead of the guide"`
	Fallback string `enum:"none,trafilatura,readability" default:"none" help:"Content extractor used when steps are not marked up (none, trafilatura, readability)"`
}

// LinksCmd is the "links" subcommand.
type LinksCmd struct {
	FetchFlags `embed:""`

	URL string `arg:"" help:"Category or listing page URL"`
}

// LocateToolsCmd is the "locate-tools" subcommand.
type LocateToolsCmd struct {
	ImageURL string   `arg:"" name:"image-url" help:"Image URL"`
	Tools    []string `arg:"" name:"tool" help:"Tool names to look for"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	DB     string `name:"db" env:"HOWTO_DB" default:"guides.db" help:"SQLite database path"`
	Author string `help:"Only list guides by this author"`
	Limit  int    `short:"n" default:"0" help:"Maximum number of guides to list (0 for all)"`
}
