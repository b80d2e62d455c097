// Package crawl orchestrates guide crawling. It coordinates URL discovery,
// per-domain pacing, fetching with retry, extraction and storage of guides.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/howto"
	"golang.org/x/sync/errgroup"
)

// Crawler fetches guide pages, extracts guides and stages them in a store.
// Per-page failures never stop the crawl; they are counted and reported
// through progress events.
type Crawler struct {
	Fetcher   howto.Fetcher
	Extractor howto.GuideExtractor
	Store     howto.GuideStore

	// Fallback, if set, re-fetches pages whose static HTML lacks a
	// required field. Used for pages that render their steps with
	// JavaScript.
	Fallback howto.Fetcher

	// RateLimiter, if set, paces requests per domain.
	RateLimiter howto.DomainLimiter

	// Seen, if set, skips URLs that were already crawled.
	Seen howto.URLSet

	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of a crawl operation.
type Result struct {
	// Saved counts guides staged in the store.
	Saved int
	// Failed counts pages that could not be fetched or stored.
	Failed int
	// Skipped counts duplicate URLs and pages that are not valid guides.
	Skipped int
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// crawlResult holds the outcome of processing a single URL.
type crawlResult struct {
	position int
	url      string
	guide    *howto.Guide
	skipped  bool
	err      error
}

// Crawl processes urls and stages every extracted guide in c.Store, in
// input order. The store is neither committed nor aborted; that decision
// belongs to the caller. Returns the context error if ctx is canceled.
func (c *Crawler) Crawl(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	var result Result

	queue := make([]string, 0, len(urls))
	for _, u := range urls {
		if c.Seen != nil {
			if c.Seen.Test(u) {
				result.Skipped++
				progress(ProgressEvent{Type: ProgressSkipped, URL: u})
				continue
			}
			c.Seen.Add(u)
		}
		queue = append(queue, u)
	}

	total := len(queue)
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	resultCh := make(chan crawlResult, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range queue {
			g.Go(func() error {
				resultCh <- c.processURL(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results as they arrive, then save in input order.
	results := make([]crawlResult, total)
	for r := range resultCh {
		results[r.position] = r
		n := int(completed.Add(1))

		event := ProgressEvent{Completed: n, Total: total, URL: r.url, Error: r.err}
		switch {
		case r.skipped:
			event.Type = ProgressSkipped
		case r.err != nil:
			event.Type = ProgressFailed
		default:
			event.Type = ProgressCompleted
		}
		progress(event)
	}

	if err := ctx.Err(); err != nil {
		return &result, err
	}

	for _, r := range results {
		switch {
		case r.skipped:
			result.Skipped++
			continue
		case r.err != nil:
			result.Failed++
			continue
		}

		if err := c.Store.Save(ctx, r.guide); err != nil {
			result.Failed++
			progress(ProgressEvent{Type: ProgressFailed, Completed: total, Total: total, URL: r.url, Error: err})
			continue
		}
		result.Saved++
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})

	return &result, nil
}

// processURL fetches a single URL and extracts its guide.
// Extraction errors mark the page as skipped rather than failed.
func (c *Crawler) processURL(ctx context.Context, position int, rawURL string) crawlResult {
	result := crawlResult{
		position: position,
		url:      rawURL,
	}

	html, err := c.fetch(ctx, c.Fetcher, rawURL)
	if err != nil {
		result.err = err
		return result
	}

	guide, err := c.Extractor.Extract(html, rawURL)
	if err != nil && c.Fallback != nil && howto.ErrorCode(err) == howto.EMISSING {
		if rendered, ferr := c.fetch(ctx, c.Fallback, rawURL); ferr == nil {
			guide, err = c.Extractor.Extract(rendered, rawURL)
		}
	}
	if err != nil {
		result.err = err
		result.skipped = isExtractionError(err)
		return result
	}

	result.guide = guide
	return result
}

// fetch waits for the domain's rate limit, then fetches with retry.
func (c *Crawler) fetch(ctx context.Context, f howto.Fetcher, rawURL string) (string, error) {
	if c.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", howto.Errorf(howto.EINVALID, "invalid URL %q", rawURL)
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, rawURL, f.Fetch, nil, delays)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return html, nil
}

func isExtractionError(err error) bool {
	switch howto.ErrorCode(err) {
	case howto.EMISSING, howto.EMALFORMED:
		return true
	}
	return false
}
