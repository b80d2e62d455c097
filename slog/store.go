package slog

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/fwojciec/howto"
)

// Ensure LoggingStore implements howto.GuideStore.
var _ howto.GuideStore = (*LoggingStore)(nil)

// LoggingStore wraps a GuideStore with logging.
type LoggingStore struct {
	next   howto.GuideStore
	logger *slog.Logger
	staged atomic.Int64
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next howto.GuideStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Save delegates to the wrapped store. Successful saves are logged at
// debug level since a crawl produces one per guide.
func (s *LoggingStore) Save(ctx context.Context, guide *howto.Guide) (err error) {
	defer func() {
		if err != nil {
			s.logger.Error("save", "url", guide.URL, "err", err)
			return
		}
		s.staged.Add(1)
		s.logger.Debug("save", "url", guide.URL, "title", guide.Title)
	}()
	return s.next.Save(ctx, guide)
}

// Commit delegates to the wrapped store and logs how many guides were
// written.
func (s *LoggingStore) Commit() (err error) {
	defer func() {
		s.logger.Info("commit", "guides", s.staged.Load(), "err", err)
		if err == nil {
			s.staged.Store(0)
		}
	}()
	return s.next.Commit()
}

// Abort delegates to the wrapped store and logs how many guides were
// discarded.
func (s *LoggingStore) Abort() (err error) {
	defer func() {
		s.logger.Warn("abort", "guides", s.staged.Load(), "err", err)
		s.staged.Store(0)
	}()
	return s.next.Abort()
}
