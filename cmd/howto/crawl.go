package main

import (
	"fmt"

	"github.com/fwojciec/howto"
	"github.com/fwojciec/howto/crawl"
)

// Run executes the crawl command. Guides are committed to the store only
// when the crawl completes; an interrupted crawl leaves the store untouched.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	urlFilter, err := howto.NewURLFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", howto.ErrorMessage(err))
		return err
	}

	urls := c.URLs
	if deps.Discoverer != nil {
		urls, err = deps.Discoverer.Discover(deps.Ctx, c.URLs, urlFilter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", howto.ErrorMessage(err))
			return err
		}
	} else if urlFilter != nil {
		urls = urlFilter.Apply(urls)
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d URLs\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 60))
		case crawl.ProgressSkipped:
			if event.Error != nil {
				fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, howto.ErrorMessage(event.Error))
			} else {
				fmt.Fprintf(deps.Stderr, "  skip %s: already crawled\n", event.URL)
			}
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %v\n", event.URL, event.Error)
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, urls, progress)
	if err != nil {
		_ = deps.Store.Abort()
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	if err := deps.Store.Commit(); err != nil {
		_ = deps.Store.Abort()
		fmt.Fprintf(deps.Stderr, "error saving guides: %v\n", err)
		return err
	}

	fmt.Fprintln(deps.Stdout, crawl.FormatResult(result))
	return nil
}
