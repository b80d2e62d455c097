package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/howto"
)

// Ensure DirStore implements howto.GuideStore at compile time.
var _ howto.GuideStore = (*DirStore)(nil)

// DirStore writes one JSON file per guide, laid out by URL host and path.
// Guides are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
type DirStore struct {
	baseDir string
	name    string
}

// NewDirStore creates a new DirStore.
// baseDir is the parent directory, name is the output directory name.
func NewDirStore(baseDir, name string) *DirStore {
	return &DirStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *DirStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *DirStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes guide into the staging directory. Guides without a URL
// cannot be placed and are rejected with EINVALID.
func (s *DirStore) Save(ctx context.Context, guide *howto.Guide) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if guide == nil || guide.URL == "" {
		return howto.Errorf(howto.EINVALID, "guide URL required")
	}

	relPath, err := URLToPath(guide.URL)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.tempDir(), relPath)
	if !within(s.tempDir(), fullPath) {
		return howto.Errorf(howto.EINVALID, "guide URL %q resolves outside the output directory", guide.URL)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	data, err := Marshal(guide)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

// within reports whether path lies inside dir.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Commit replaces the output directory with the staging directory.
// Committing without any saved guide leaves the output untouched.
func (s *DirStore) Commit() error {
	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort removes the staging directory.
func (s *DirStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
