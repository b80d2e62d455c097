package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/howto"
)

// Ensure LoggingLinkFinder implements howto.GuideLinkFinder.
var _ howto.GuideLinkFinder = (*LoggingLinkFinder)(nil)

// LoggingLinkFinder wraps a GuideLinkFinder with logging.
type LoggingLinkFinder struct {
	next   howto.GuideLinkFinder
	logger *slog.Logger
}

// NewLoggingLinkFinder creates a new LoggingLinkFinder.
func NewLoggingLinkFinder(next howto.GuideLinkFinder, logger *slog.Logger) *LoggingLinkFinder {
	return &LoggingLinkFinder{next: next, logger: logger}
}

// FindGuideLinks delegates to the wrapped finder and logs the link count.
func (f *LoggingLinkFinder) FindGuideLinks(html, baseURL string) (links []string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("link discovery",
			"url", baseURL,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FindGuideLinks(html, baseURL)
}
