package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/sitevec"
	openaisdk "github.com/openai/openai-go"
	"golang.org/x/sync/errgroup"
)

// Batch statuses reported by the API.
const (
	BatchInProgress = string(openaisdk.VectorStoreFileBatchStatusInProgress)
	BatchCompleted  = string(openaisdk.VectorStoreFileBatchStatusCompleted)
	BatchFailed     = string(openaisdk.VectorStoreFileBatchStatusFailed)
	BatchCancelled  = string(openaisdk.VectorStoreFileBatchStatusCancelled)
)

// FindTarget retrieves the vector store with the given ID.
func (c *Client) FindTarget(ctx context.Context, id string) (*sitevec.Target, error) {
	if err := c.checkCredentials(id); err != nil {
		return nil, err
	}

	vs, err := c.sdk.VectorStores.Get(ctx, id)
	if err != nil {
		return nil, remoteError(err)
	}

	return &sitevec.Target{
		ID:        vs.ID,
		Name:      vs.Name,
		Status:    string(vs.Status),
		FileCount: int(vs.FileCounts.Total),
		CreatedAt: time.Unix(vs.CreatedAt, 0).UTC(),
	}, nil
}

// UploadBatch uploads files, attaches them to the vector store as a single
// file batch and waits until the batch leaves the in_progress state.
// Files the API fails to index are reported in the result, not as errors.
// When the batch cannot be created, files already uploaded are deleted.
func (c *Client) UploadBatch(ctx context.Context, targetID string, files []sitevec.UploadFile) (*sitevec.UploadResult, error) {
	if err := c.checkCredentials(targetID); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &sitevec.UploadResult{Status: BatchCompleted}, nil
	}

	fileIDs, err := c.uploadFiles(ctx, files)
	if err != nil {
		c.deleteFiles(ctx, fileIDs)
		return nil, err
	}

	batch, err := c.sdk.VectorStores.FileBatches.New(ctx, targetID, openaisdk.VectorStoreFileBatchNewParams{
		FileIDs: fileIDs,
	})
	if err != nil {
		c.deleteFiles(ctx, fileIDs)
		return nil, fmt.Errorf("creating file batch: %w", remoteError(err))
	}

	for batch.Status == openaisdk.VectorStoreFileBatchStatusInProgress {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		id := batch.ID
		batch, err = c.sdk.VectorStores.FileBatches.Get(ctx, targetID, id)
		if err != nil {
			return nil, fmt.Errorf("polling file batch %s: %w", id, remoteError(err))
		}
	}

	return &sitevec.UploadResult{
		BatchID:    batch.ID,
		Status:     string(batch.Status),
		Completed:  int(batch.FileCounts.Completed),
		Failed:     int(batch.FileCounts.Failed),
		Cancelled:  int(batch.FileCounts.Cancelled),
		InProgress: int(batch.FileCounts.InProgress),
		Total:      int(batch.FileCounts.Total),
	}, nil
}

// uploadFiles uploads files with bounded concurrency and returns their IDs
// in input order. The first failure cancels the remaining uploads; the IDs
// uploaded before it are still returned alongside the error.
func (c *Client) uploadFiles(ctx context.Context, files []sitevec.UploadFile) ([]string, error) {
	ids := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.uploadConcurrency)
	for i, f := range files {
		g.Go(func() error {
			id, err := c.uploadFile(gctx, f)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", f.Name, err)
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uploaded := ids[:0]
		for _, id := range ids {
			if id != "" {
				uploaded = append(uploaded, id)
			}
		}
		return uploaded, err
	}
	return ids, nil
}

func (c *Client) uploadFile(ctx context.Context, f sitevec.UploadFile) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	obj, err := c.sdk.Files.New(ctx, openaisdk.FileNewParams{
		File:    openaisdk.File(rc, f.Name, "text/plain"),
		Purpose: openaisdk.FilePurposeAssistants,
	})
	if err != nil {
		return "", remoteError(err)
	}
	return obj.ID, nil
}

// deleteFiles removes uploaded files that never made it into a batch.
// Cleanup is best-effort and survives cancellation of ctx.
func (c *Client) deleteFiles(ctx context.Context, ids []string) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		_, _ = c.sdk.Files.Delete(ctx, id)
	}
}

func (c *Client) wait(ctx context.Context) error {
	t := time.NewTimer(c.pollInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
