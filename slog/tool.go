package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/howto"
)

// Ensure LoggingToolLocator implements howto.ToolLocator.
var _ howto.ToolLocator = (*LoggingToolLocator)(nil)

// LoggingToolLocator wraps a ToolLocator with logging.
type LoggingToolLocator struct {
	next   howto.ToolLocator
	logger *slog.Logger
}

// NewLoggingToolLocator creates a new LoggingToolLocator.
func NewLoggingToolLocator(next howto.ToolLocator, logger *slog.Logger) *LoggingToolLocator {
	return &LoggingToolLocator{next: next, logger: logger}
}

// LocateTools delegates to the wrapped locator and logs how many of the
// requested tools were found.
func (l *LoggingToolLocator) LocateTools(ctx context.Context, imageURL string, tools []string) (locs []howto.ToolLocation, err error) {
	defer func(begin time.Time) {
		l.logger.Info("locate tools",
			"image", imageURL,
			"requested", len(tools),
			"found", len(locs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LocateTools(ctx, imageURL, tools)
}
