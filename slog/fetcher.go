// Package slog provides logging decorators for the howto services.
// Each decorator logs one line per call with the arguments, duration and
// error of the wrapped call.
package slog

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/howto"
)

// Ensure LoggingFetcher implements howto.Fetcher.
var _ howto.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every page fetch, tagged with the renderer that
// served it ("http" or "browser"). Successful fetches log at Debug because
// the crawl already reports per-page progress; failures log at Warn.
type LoggingFetcher struct {
	next   howto.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next howto.Fetcher, logger *slog.Logger, renderer string) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger.With("renderer", renderer)}
}

// Fetch delegates to the wrapped fetcher and logs the page host and size.
func (f *LoggingFetcher) Fetch(ctx context.Context, pageURL string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"host", hostOf(pageURL),
			"url", pageURL,
			"duration", time.Since(begin),
		}
		if err != nil {
			f.logger.Warn("fetch page", append(attrs, "code", howto.ErrorCode(err), "err", err)...)
			return
		}
		f.logger.Debug("fetch page", append(attrs, "bytes", len(html))...)
	}(time.Now())
	return f.next.Fetch(ctx, pageURL)
}

// Close delegates to the wrapped fetcher and logs shutdown failures.
func (f *LoggingFetcher) Close() error {
	err := f.next.Close()
	if err != nil {
		f.logger.Warn("close fetcher", "err", err)
	}
	return err
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
