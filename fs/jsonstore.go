package fs

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/howto"
)

// Ensure JSONStore implements howto.GuideStore at compile time.
var _ howto.GuideStore = (*JSONStore)(nil)

// JSONStore collects guides in memory and writes them as one JSON array on
// Commit. The file is written next to its destination and renamed into
// place, so readers never see a partial array.
//
// JSONStore is safe for concurrent use.
type JSONStore struct {
	path string

	mu     sync.Mutex
	guides []*howto.Guide
	byURL  map[string]int
}

// NewJSONStore creates a JSONStore writing to path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path:  path,
		byURL: make(map[string]int),
	}
}

// Save stages a guide. A guide with the URL of an already staged guide
// replaces it in place.
func (s *JSONStore) Save(ctx context.Context, guide *howto.Guide) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if guide == nil {
		return howto.Errorf(howto.EINVALID, "guide required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byURL[guide.URL]; ok && guide.URL != "" {
		s.guides[i] = guide
		return nil
	}
	if guide.URL != "" {
		s.byURL[guide.URL] = len(s.guides)
	}
	s.guides = append(s.guides, guide)
	return nil
}

// Len returns the number of staged guides.
func (s *JSONStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.guides)
}

// Commit writes the staged guides to the destination file. An empty
// store writes an empty array.
func (s *JSONStore) Commit() error {
	s.mu.Lock()
	guides := s.guides
	if guides == nil {
		guides = []*howto.Guide{}
	}
	data, err := Marshal(guides)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Abort discards the staged guides. The destination file is untouched.
func (s *JSONStore) Abort() error {
	s.mu.Lock()
	s.guides = nil
	s.byURL = make(map[string]int)
	s.mu.Unlock()

	if err := os.Remove(s.path + ".tmp"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
