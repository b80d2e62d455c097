package mock

import (
	"context"

	"github.com/fwojciec/howto"
)

var _ howto.GuideExtractor = (*GuideExtractor)(nil)

// GuideExtractor is a mock implementation of howto.GuideExtractor.
type GuideExtractor struct {
	ExtractFn func(html, sourceURL string) (*howto.Guide, error)
}

func (e *GuideExtractor) Extract(html, sourceURL string) (*howto.Guide, error) {
	return e.ExtractFn(html, sourceURL)
}

var _ howto.GuideStore = (*GuideStore)(nil)

// GuideStore is a mock implementation of howto.GuideStore.
type GuideStore struct {
	SaveFn   func(ctx context.Context, guide *howto.Guide) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *GuideStore) Save(ctx context.Context, guide *howto.Guide) error {
	return s.SaveFn(ctx, guide)
}

func (s *GuideStore) Commit() error {
	return s.CommitFn()
}

func (s *GuideStore) Abort() error {
	return s.AbortFn()
}

var _ howto.GuideService = (*GuideService)(nil)

// GuideService is a mock implementation of howto.GuideService.
type GuideService struct {
	CreateGuideFn   func(ctx context.Context, guide *howto.Guide) (*howto.StoredGuide, error)
	FindGuideByIDFn func(ctx context.Context, id string) (*howto.StoredGuide, error)
	FindGuidesFn    func(ctx context.Context, filter howto.GuideFilter) ([]*howto.StoredGuide, error)
	DeleteGuideFn   func(ctx context.Context, id string) error
}

func (s *GuideService) CreateGuide(ctx context.Context, guide *howto.Guide) (*howto.StoredGuide, error) {
	return s.CreateGuideFn(ctx, guide)
}

func (s *GuideService) FindGuideByID(ctx context.Context, id string) (*howto.StoredGuide, error) {
	return s.FindGuideByIDFn(ctx, id)
}

func (s *GuideService) FindGuides(ctx context.Context, filter howto.GuideFilter) ([]*howto.StoredGuide, error) {
	return s.FindGuidesFn(ctx, filter)
}

func (s *GuideService) DeleteGuide(ctx context.Context, id string) error {
	return s.DeleteGuideFn(ctx, id)
}
