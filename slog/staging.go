package slog

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/sitevec"
)

var _ sitevec.StagingStore = (*LoggingStagingStore)(nil)

// LoggingStagingStore wraps a StagingStore with debug logging.
// Open is not logged; it runs once per file on every upload.
type LoggingStagingStore struct {
	next   sitevec.StagingStore
	logger *slog.Logger
}

// NewLoggingStagingStore creates a new LoggingStagingStore.
func NewLoggingStagingStore(next sitevec.StagingStore, logger *slog.Logger) *LoggingStagingStore {
	return &LoggingStagingStore{next: next, logger: logger}
}

// Create logs the directory that was created.
func (s *LoggingStagingStore) Create() error {
	err := s.next.Create()
	s.logger.Debug("staging create", "dir", s.next.Dir(), "err", err)
	return err
}

// Dir delegates to the wrapped store.
func (s *LoggingStagingStore) Dir() string {
	return s.next.Dir()
}

// Stage logs the staged file name and size.
func (s *LoggingStagingStore) Stage(ctx context.Context, url, content string) (file *sitevec.StagedFile, err error) {
	defer func() {
		attrs := []any{"url", url}
		if file != nil {
			attrs = append(attrs, "name", file.Name, "bytes", file.Bytes)
		}
		s.logger.Debug("stage", append(attrs, "err", err)...)
	}()
	return s.next.Stage(ctx, url, content)
}

// Open delegates to the wrapped store.
func (s *LoggingStagingStore) Open(file *sitevec.StagedFile) (io.ReadCloser, error) {
	return s.next.Open(file)
}

// Delete logs the removed file.
func (s *LoggingStagingStore) Delete(file *sitevec.StagedFile) error {
	err := s.next.Delete(file)
	s.logger.Debug("unstage", "name", file.Name, "err", err)
	return err
}

// Remove logs the removed directory.
func (s *LoggingStagingStore) Remove() error {
	dir := s.next.Dir()
	err := s.next.Remove()
	s.logger.Debug("staging remove", "dir", dir, "err", err)
	return err
}
