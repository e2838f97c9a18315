package mock

import (
	"context"

	"github.com/fwojciec/sitevec"
)

var _ sitevec.RunService = (*RunService)(nil)

// RunService is a mock implementation of sitevec.RunService.
type RunService struct {
	CreateRunFn    func(ctx context.Context, run *sitevec.Run) error
	FindRunByIDFn  func(ctx context.Context, id string) (*sitevec.Run, error)
	FindRunsFn     func(ctx context.Context, filter sitevec.RunFilter) ([]*sitevec.Run, error)
	FinishRunFn    func(ctx context.Context, id string, upd sitevec.RunUpdate) (*sitevec.Run, error)
	CreateUploadFn func(ctx context.Context, upload *sitevec.Upload) error
	FindUploadsFn  func(ctx context.Context, runID string) ([]*sitevec.Upload, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *sitevec.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*sitevec.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter sitevec.RunFilter) ([]*sitevec.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FinishRun(ctx context.Context, id string, upd sitevec.RunUpdate) (*sitevec.Run, error) {
	return s.FinishRunFn(ctx, id, upd)
}

func (s *RunService) CreateUpload(ctx context.Context, upload *sitevec.Upload) error {
	return s.CreateUploadFn(ctx, upload)
}

func (s *RunService) FindUploads(ctx context.Context, runID string) ([]*sitevec.Upload, error) {
	return s.FindUploadsFn(ctx, runID)
}
