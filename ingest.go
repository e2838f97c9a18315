package sitevec

import (
	"context"
	"io"
	"time"
)

// Target is the remote vector store receiving uploaded content.
type Target struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	FileCount int       `json:"fileCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// UploadResult describes a settled batch as reported by the remote side.
// Failed and cancelled files are the remote's concern and are not retried.
type UploadResult struct {
	BatchID    string `json:"batchId"`
	Status     string `json:"status"`
	Completed  int    `json:"completed"`
	Failed     int    `json:"failed"`
	Cancelled  int    `json:"cancelled"`
	InProgress int    `json:"inProgress"`
	Total      int    `json:"total"`
}

// IngestionService is the remote destination of staged files.
type IngestionService interface {
	// FindTarget retrieves the target by ID.
	// Returns EINVALID if credentials or the ID are missing, and a
	// *RemoteError carrying the remote status otherwise.
	FindTarget(ctx context.Context, id string) (*Target, error)

	// UploadBatch submits files as one unit to the target and blocks
	// until the remote reports the batch as settled.
	UploadBatch(ctx context.Context, targetID string, files []UploadFile) (*UploadResult, error)
}
