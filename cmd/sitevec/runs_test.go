package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/sitevec"
	main "github.com/fwojciec/sitevec/cmd/sitevec"
	"github.com/fwojciec/sitevec/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsCmd_Run(t *testing.T) {
	t.Parallel()

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("lists runs", func(t *testing.T) {
		t.Parallel()

		var got sitevec.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter sitevec.RunFilter) ([]*sitevec.Run, error) {
				got = filter
				return []*sitevec.Run{
					{ID: "run-2", SeedURL: "https://go.dev", State: sitevec.RunStateDone, Staged: 12, Batches: 1, StartedAt: started},
					{ID: "run-1", SeedURL: "https://example.com", State: sitevec.RunStateFailed, StartedAt: started},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsCmd{Limit: 5, State: "done"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 5, got.Limit)
		require.NotNil(t, got.State)
		assert.Equal(t, "done", *got.State)
		assert.Contains(t, stdout.String(), "run-2  done")
		assert.Contains(t, stdout.String(), "12 staged  1 batches  https://go.dev")
		assert.Contains(t, stdout.String(), "run-1  failed")
	})

	t.Run("explains an empty ledger", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(context.Context, sitevec.RunFilter) ([]*sitevec.Run, error) { return nil, nil },
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		require.NoError(t, (&main.RunsCmd{}).Run(deps))

		assert.Contains(t, stdout.String(), "No runs recorded")
	})

	t.Run("rejects unknown states", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Runs: &mock.RunService{}}

		err := (&main.RunsCmd{State: "paused"}).Run(deps)

		assert.Equal(t, sitevec.EINVALID, sitevec.ErrorCode(err))
		assert.Contains(t, stderr.String(), `unknown run state "paused"`)
	})

	t.Run("shows a run with its uploads", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(_ context.Context, id string) (*sitevec.Run, error) {
				return &sitevec.Run{
					ID: id, SeedURL: "https://example.com", TargetID: "vs_123", State: sitevec.RunStateFailed,
					Staged: 3, Failed: 1, Bytes: 100, Error: "upload failed", StartedAt: started, FinishedAt: started.Add(time.Minute),
				}, nil
			},
			FindUploadsFn: func(_ context.Context, runID string) ([]*sitevec.Upload, error) {
				return []*sitevec.Upload{{RunID: runID, BatchID: "vsfb_1", Status: "completed", Files: 2, Completed: 2}}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsCmd{ID: "run-1"}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "Run      run-1")
		assert.Contains(t, out, "Target   vs_123")
		assert.Contains(t, out, "Pages    3 staged, 1 failed (100 B)")
		assert.Contains(t, out, "Error    upload failed")
		assert.Contains(t, out, "batch 1  vsfb_1  completed  2 files, 2 completed, 0 failed")
	})

	t.Run("reports unknown runs", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(context.Context, string) (*sitevec.Run, error) {
				return nil, sitevec.Errorf(sitevec.ENOTFOUND, "run not found")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Runs: runs}

		err := (&main.RunsCmd{ID: "nope"}).Run(deps)

		assert.Equal(t, sitevec.ENOTFOUND, sitevec.ErrorCode(err))
		assert.Equal(t, "error: run not found\n", stderr.String())
	})
}
