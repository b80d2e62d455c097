package mock

import (
	"context"

	"github.com/fwojciec/howto"
)

var _ howto.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of howto.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ howto.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of howto.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*howto.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*howto.ExtractResult, error) {
	return e.ExtractFn(html)
}
