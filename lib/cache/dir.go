package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm/bladex/lib/encoding"
)

// FileExt is the extension of cache files written by DirStore.
const FileExt = ".bxc"

// DirStore keeps one signed file per entry in a directory.
type DirStore struct {
	dir   string
	codec *encoding.Codec
}

// NewDirStore creates the directory if needed and returns a store that
// protects its entries with codec.
func NewDirStore(dir string, codec *encoding.Codec) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", dir, err)
	}
	return &DirStore{dir: dir, codec: codec}, nil
}

// Dir returns the cache directory.
func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) Get(key string) (Entry, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache: read %s: %w", key, err)
	}

	var entry Entry
	if err := s.codec.Decode(string(data), &entry); err != nil {
		return Entry{}, false, fmt.Errorf("cache: entry %s: %w", key, err)
	}
	if entry.Key != key {
		return Entry{}, false, fmt.Errorf("cache: entry %s: %w: stored under %s", key, encoding.ErrInvalidFormat, entry.Key)
	}
	return entry, true, nil
}

// Put writes the entry to a temporary file and renames it into place.
func (s *DirStore) Put(entry Entry) error {
	encoded, err := s.codec.Encode(entry)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", entry.Key, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(encoded); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: write %s: %w", entry.Key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: write %s: %w", entry.Key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(entry.Key)); err != nil {
		return fmt.Errorf("cache: write %s: %w", entry.Key, err)
	}
	return nil
}

// Clear removes every cache file and returns how many were removed.
func (s *DirStore) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("cache: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileExt) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return n, fmt.Errorf("cache: %w", err)
		}
		n++
	}
	return n, nil
}

func (s *DirStore) path(key string) string {
	return filepath.Join(s.dir, key+FileExt)
}
