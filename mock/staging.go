package mock

import (
	"context"
	"io"

	"github.com/fwojciec/sitevec"
)

var _ sitevec.StagingStore = (*StagingStore)(nil)

// StagingStore is a mock implementation of sitevec.StagingStore.
type StagingStore struct {
	CreateFn func() error
	DirFn    func() string
	StageFn  func(ctx context.Context, url, content string) (*sitevec.StagedFile, error)
	OpenFn   func(file *sitevec.StagedFile) (io.ReadCloser, error)
	DeleteFn func(file *sitevec.StagedFile) error
	RemoveFn func() error
}

func (s *StagingStore) Create() error {
	return s.CreateFn()
}

func (s *StagingStore) Dir() string {
	return s.DirFn()
}

func (s *StagingStore) Stage(ctx context.Context, url, content string) (*sitevec.StagedFile, error) {
	return s.StageFn(ctx, url, content)
}

func (s *StagingStore) Open(file *sitevec.StagedFile) (io.ReadCloser, error) {
	return s.OpenFn(file)
}

func (s *StagingStore) Delete(file *sitevec.StagedFile) error {
	return s.DeleteFn(file)
}

func (s *StagingStore) Remove() error {
	return s.RemoveFn()
}
