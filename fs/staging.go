// Package fs provides the file-based staging area of a crawl.
package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitevec"
)

// Ensure StagingStore implements sitevec.StagingStore at compile time.
var _ sitevec.StagingStore = (*StagingStore)(nil)

var schemePrefix = regexp.MustCompile(`^https?://`)

// StagedName converts a page URL to its staged file name. Every byte that
// is not an ASCII letter or digit becomes '_', so a multi-byte rune yields
// one underscore per byte.
// Example: https://example.com/about → example_com_about.txt
func StagedName(rawURL, ext string) string {
	name := []byte(schemePrefix.ReplaceAllString(rawURL, ""))
	for i, c := range name {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			name[i] = '_'
		}
	}
	return string(name) + ext
}

// StagingStore writes staged pages to a per-crawl directory created under
// root. Each crawl gets its own directory so concurrent crawls sharing a
// root never see each other's files.
type StagingStore struct {
	root string
	ext  string

	mu    sync.Mutex
	dir   string
	names map[string]string // file name → URL
}

// NewStagingStore creates a store that stages files with the given suffix
// under root. An empty root selects the OS temp directory.
func NewStagingStore(root, ext string) *StagingStore {
	if root == "" {
		root = os.TempDir()
	}
	return &StagingStore{
		root:  root,
		ext:   ext,
		names: make(map[string]string),
	}
}

func (s *StagingStore) Create() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return err
	}
	dir, err := os.MkdirTemp(s.root, "crawl-*")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir = dir
	return nil
}

func (s *StagingStore) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

func (s *StagingStore) Stage(ctx context.Context, url, content string) (*sitevec.StagedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir == "" {
		return nil, sitevec.Errorf(sitevec.EINTERNAL, "staging directory not created")
	}

	name := s.uniqueName(url)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, err
	}
	s.names[name] = url

	return &sitevec.StagedFile{
		URL:   url,
		Name:  name,
		Path:  path,
		Bytes: len(content),
		Hash:  strconv.FormatUint(xxhash.Sum64String(content), 16),
	}, nil
}

// uniqueName returns the staged name of url, suffixed with a counter when
// a different URL already sanitized to the same name.
func (s *StagingStore) uniqueName(url string) string {
	name := StagedName(url, s.ext)
	if owner, ok := s.names[name]; !ok || owner == url {
		return name
	}
	base := StagedName(url, "")
	for i := 2; ; i++ {
		candidate := base + "_" + strconv.Itoa(i) + s.ext
		if owner, ok := s.names[candidate]; !ok || owner == url {
			return candidate
		}
	}
}

func (s *StagingStore) Open(file *sitevec.StagedFile) (io.ReadCloser, error) {
	return os.Open(file.Path)
}

func (s *StagingStore) Delete(file *sitevec.StagedFile) error {
	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *StagingStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir == "" {
		return nil
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	s.dir = ""
	clear(s.names)
	return nil
}
