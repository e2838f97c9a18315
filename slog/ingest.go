package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitevec"
)

var _ sitevec.IngestionService = (*LoggingIngestionService)(nil)

// LoggingIngestionService wraps an IngestionService with logging.
type LoggingIngestionService struct {
	next   sitevec.IngestionService
	logger *slog.Logger
}

// NewLoggingIngestionService creates a new LoggingIngestionService.
func NewLoggingIngestionService(next sitevec.IngestionService, logger *slog.Logger) *LoggingIngestionService {
	return &LoggingIngestionService{next: next, logger: logger}
}

// FindTarget logs the target lookup.
func (s *LoggingIngestionService) FindTarget(ctx context.Context, id string) (target *sitevec.Target, err error) {
	defer func(begin time.Time) {
		attrs := []any{"id", id, "duration", time.Since(begin)}
		if target != nil {
			attrs = append(attrs, "name", target.Name, "files", target.FileCount)
		}
		s.logger.Info("find target", append(attrs, "err", err)...)
	}(time.Now())
	return s.next.FindTarget(ctx, id)
}

// UploadBatch logs the batch size and the settled file counts.
func (s *LoggingIngestionService) UploadBatch(ctx context.Context, targetID string, files []sitevec.UploadFile) (result *sitevec.UploadResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"target", targetID, "files", len(files), "duration", time.Since(begin)}
		if result != nil {
			attrs = append(attrs,
				"batch", result.BatchID,
				"status", result.Status,
				"completed", result.Completed,
				"failed", result.Failed,
			)
		}
		s.logger.Info("upload batch", append(attrs, "err", err)...)
	}(time.Now())
	return s.next.UploadBatch(ctx, targetID, files)
}
