package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/howto"
)

// Ensure LoggingExtractor implements howto.GuideExtractor.
var _ howto.GuideExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a GuideExtractor with logging.
// Pages that are not valid guides are logged at warn level together with
// the error code and the missing field.
type LoggingExtractor struct {
	next   howto.GuideExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next howto.GuideExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(html, sourceURL string) (guide *howto.Guide, err error) {
	defer func(begin time.Time) {
		if err != nil {
			e.logger.Warn("extract",
				"url", sourceURL,
				"code", howto.ErrorCode(err),
				"field", string(howto.ErrorField(err)),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		e.logger.Info("extract",
			"url", sourceURL,
			"title", guide.Title,
			"steps", len(guide.Steps),
			"supplies", len(guide.Supplies),
			"images", len(guide.ImageURLs),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Extract(html, sourceURL)
}
