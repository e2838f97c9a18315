package mock

import (
	"context"

	"github.com/fwojciec/sitevec"
)

var _ sitevec.IngestionService = (*IngestionService)(nil)

// IngestionService is a mock implementation of sitevec.IngestionService.
type IngestionService struct {
	FindTargetFn  func(ctx context.Context, id string) (*sitevec.Target, error)
	UploadBatchFn func(ctx context.Context, targetID string, files []sitevec.UploadFile) (*sitevec.UploadResult, error)
}

func (s *IngestionService) FindTarget(ctx context.Context, id string) (*sitevec.Target, error) {
	return s.FindTargetFn(ctx, id)
}

func (s *IngestionService) UploadBatch(ctx context.Context, targetID string, files []sitevec.UploadFile) (*sitevec.UploadResult, error) {
	return s.UploadBatchFn(ctx, targetID, files)
}
