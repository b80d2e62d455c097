package sqlite

import (
	"context"
	"sync"

	"github.com/fwojciec/howto"
)

// Ensure GuideStore implements howto.GuideStore at compile time.
var _ howto.GuideStore = (*GuideStore)(nil)

// GuideStore stages guides in memory and writes them to the database in a
// single transaction on Commit. Either every staged guide is stored or none.
type GuideStore struct {
	db *DB

	mu     sync.Mutex
	staged []*howto.Guide
	index  map[string]int
}

// NewGuideStore creates a GuideStore writing to db.
func NewGuideStore(db *DB) *GuideStore {
	return &GuideStore{
		db:    db,
		index: make(map[string]int),
	}
}

// Save stages a guide. A later guide with the same URL replaces the
// earlier one. Returns EINVALID for a guide without a URL.
func (s *GuideStore) Save(ctx context.Context, guide *howto.Guide) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if guide == nil || guide.URL == "" {
		return howto.Errorf(howto.EINVALID, "guide URL required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[guide.URL]; ok {
		s.staged[i] = guide
		return nil
	}
	s.index[guide.URL] = len(s.staged)
	s.staged = append(s.staged, guide)
	return nil
}

// Commit writes all staged guides. Staged guides are kept on failure so
// the caller can retry or Abort.
func (s *GuideStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.staged) == 0 {
		return nil
	}

	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, g := range s.staged {
		if _, err := upsertGuide(ctx, tx, g); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.reset()
	return nil
}

// Abort discards all staged guides.
func (s *GuideStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	return nil
}

// Len returns the number of staged guides.
func (s *GuideStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.staged)
}

func (s *GuideStore) reset() {
	s.staged = nil
	s.index = make(map[string]int)
}
