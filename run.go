package sitevec

import (
	"context"
	"time"
)

// Run states, mirroring the lifecycle of a crawl.
const (
	RunStateCrawling = "crawling"
	RunStateDone     = "done"
	RunStateFailed   = "failed"
)

// Run is the ledger entry of a single crawl.
type Run struct {
	ID         string    `json:"id"`
	SeedURL    string    `json:"seedUrl"`
	TargetID   string    `json:"targetId"`
	State      string    `json:"state"`
	Staged     int       `json:"staged"`
	Failed     int       `json:"failed"`
	Batches    int       `json:"batches"`
	Bytes      int       `json:"bytes"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SeedURL == "" {
		return Errorf(EINVALID, "run seed URL required")
	}
	if r.TargetID == "" {
		return Errorf(EINVALID, "run target ID required")
	}
	return nil
}

// Upload is the ledger entry of one flushed batch.
type Upload struct {
	ID        string    `json:"id"`
	RunID     string    `json:"runId"`
	BatchID   string    `json:"batchId"`
	Status    string    `json:"status"`
	Files     int       `json:"files"`
	Completed int       `json:"completed"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the upload contains invalid fields.
func (u *Upload) Validate() error {
	if u.RunID == "" {
		return Errorf(EINVALID, "upload run ID required")
	}
	return nil
}

// RunService records crawl runs and their uploads.
type RunService interface {
	// CreateRun creates a new run in the crawling state.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FinishRun records the terminal state and counters of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, id string, upd RunUpdate) (*Run, error)

	// CreateUpload records a flushed batch.
	CreateUpload(ctx context.Context, upload *Upload) error

	// FindUploads retrieves the uploads of a run in flush order.
	FindUploads(ctx context.Context, runID string) ([]*Upload, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	SeedURL  *string `json:"seedUrl"`
	TargetID *string `json:"targetId"`
	State    *string `json:"state"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunUpdate represents the terminal fields of a run.
type RunUpdate struct {
	State   string `json:"state"`
	Staged  int    `json:"staged"`
	Failed  int    `json:"failed"`
	Batches int    `json:"batches"`
	Bytes   int    `json:"bytes"`
	Error   string `json:"error"`
}
