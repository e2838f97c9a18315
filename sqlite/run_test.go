package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func createRun(t *testing.T, svc *sqlite.RunService, seed string) *sitevec.Run {
	t.Helper()
	run := &sitevec.Run{SeedURL: seed, TargetID: "vs_123"}
	require.NoError(t, svc.CreateRun(context.Background(), run))
	return run
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("creates a crawling run with generated ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := createRun(t, svc, "https://example.com/")

		assert.NotEmpty(t, run.ID)
		assert.Equal(t, sitevec.RunStateCrawling, run.State)
		assert.False(t, run.StartedAt.IsZero())
		assert.True(t, run.FinishedAt.IsZero())
	})

	t.Run("returns error for invalid run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		err := svc.CreateRun(context.Background(), &sitevec.Run{})

		require.Error(t, err)
		assert.Equal(t, sitevec.EINVALID, sitevec.ErrorCode(err))
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("returns run when found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := createRun(t, svc, "https://example.com/")

		found, err := svc.FindRunByID(context.Background(), run.ID)

		require.NoError(t, err)
		assert.Equal(t, run.ID, found.ID)
		assert.Equal(t, "https://example.com/", found.SeedURL)
		assert.Equal(t, "vs_123", found.TargetID)
		assert.Equal(t, run.StartedAt, found.StartedAt)
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		_, err := svc.FindRunByID(context.Background(), "missing")

		assert.Equal(t, sitevec.ENOTFOUND, sitevec.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("returns most recent first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		first := createRun(t, svc, "https://a.example/")
		second := createRun(t, svc, "https://b.example/")

		runs, err := svc.FindRuns(context.Background(), sitevec.RunFilter{})

		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, second.ID, runs[0].ID)
		assert.Equal(t, first.ID, runs[1].ID)
	})

	t.Run("filters by seed and state", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		svc := sqlite.NewRunService(setupTestDB(t))
		a := createRun(t, svc, "https://a.example/")
		createRun(t, svc, "https://b.example/")
		_, err := svc.FinishRun(ctx, a.ID, sitevec.RunUpdate{State: sitevec.RunStateDone})
		require.NoError(t, err)

		seed := "https://a.example/"
		runs, err := svc.FindRuns(ctx, sitevec.RunFilter{SeedURL: &seed})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, a.ID, runs[0].ID)

		state := sitevec.RunStateCrawling
		runs, err = svc.FindRuns(ctx, sitevec.RunFilter{State: &state})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "https://b.example/", runs[0].SeedURL)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		for _, seed := range []string{"https://a.example/", "https://b.example/", "https://c.example/"} {
			createRun(t, svc, seed)
		}

		runs, err := svc.FindRuns(context.Background(), sitevec.RunFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, runs, 2)

		runs, err = svc.FindRuns(context.Background(), sitevec.RunFilter{Offset: 2})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "https://a.example/", runs[0].SeedURL)
	})
}

func TestRunService_FinishRun(t *testing.T) {
	t.Parallel()

	t.Run("records terminal state and counters", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := createRun(t, svc, "https://example.com/")

		finished, err := svc.FinishRun(context.Background(), run.ID, sitevec.RunUpdate{
			State:   sitevec.RunStateFailed,
			Staged:  501,
			Failed:  3,
			Batches: 1,
			Bytes:   2048,
			Error:   "upload of 1 staged files failed: boom",
		})

		require.NoError(t, err)
		assert.Equal(t, sitevec.RunStateFailed, finished.State)
		assert.Equal(t, 501, finished.Staged)
		assert.Equal(t, 3, finished.Failed)
		assert.Equal(t, 1, finished.Batches)
		assert.Equal(t, 2048, finished.Bytes)
		assert.Equal(t, "upload of 1 staged files failed: boom", finished.Error)
		assert.False(t, finished.FinishedAt.IsZero())
	})

	t.Run("rejects non-terminal states", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := createRun(t, svc, "https://example.com/")

		_, err := svc.FinishRun(context.Background(), run.ID, sitevec.RunUpdate{State: sitevec.RunStateCrawling})

		assert.Equal(t, sitevec.EINVALID, sitevec.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		_, err := svc.FinishRun(context.Background(), "missing", sitevec.RunUpdate{State: sitevec.RunStateDone})

		assert.Equal(t, sitevec.ENOTFOUND, sitevec.ErrorCode(err))
	})
}

func TestRunService_Uploads(t *testing.T) {
	t.Parallel()

	t.Run("returns uploads in flush order", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		svc := sqlite.NewRunService(setupTestDB(t))
		run := createRun(t, svc, "https://example.com/")

		require.NoError(t, svc.CreateUpload(ctx, &sitevec.Upload{RunID: run.ID, BatchID: "vsfb_1", Files: 500, Completed: 500, Status: "completed"}))
		require.NoError(t, svc.CreateUpload(ctx, &sitevec.Upload{RunID: run.ID, BatchID: "vsfb_2", Files: 1, Completed: 1, Status: "completed"}))

		uploads, err := svc.FindUploads(ctx, run.ID)

		require.NoError(t, err)
		require.Len(t, uploads, 2)
		assert.Equal(t, "vsfb_1", uploads[0].BatchID)
		assert.Equal(t, 500, uploads[0].Files)
		assert.Equal(t, "vsfb_2", uploads[1].BatchID)
	})

	t.Run("rejects uploads of unknown runs", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		err := svc.CreateUpload(context.Background(), &sitevec.Upload{RunID: "missing"})

		assert.Error(t, err)
	})

	t.Run("requires a run ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		err := svc.CreateUpload(context.Background(), &sitevec.Upload{})

		assert.Equal(t, sitevec.EINVALID, sitevec.ErrorCode(err))
	})
}
