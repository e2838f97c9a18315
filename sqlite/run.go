package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/sitevec"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitevec.RunService = (*RunService)(nil)

// RunService implements sitevec.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

const runColumns = "id, seed_url, target_id, state, staged, failed, batches, bytes, error, started_at, finished_at"

// CreateRun creates a new run in the crawling state.
func (s *RunService) CreateRun(ctx context.Context, run *sitevec.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.State = sitevec.RunStateCrawling
	run.StartedAt = time.Now().UTC().Truncate(time.Second)
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed_url, target_id, state, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.SeedURL, run.TargetID, run.State, formatTime(run.StartedAt))

	return err
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*sitevec.Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitevec.Errorf(sitevec.ENOTFOUND, "run not found")
	}
	return run, err
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter sitevec.RunFilter) ([]*sitevec.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")

	if filter.SeedURL != nil {
		query.WriteString(" AND seed_url = ?")
		args = append(args, *filter.SeedURL)
	}
	if filter.TargetID != nil {
		query.WriteString(" AND target_id = ?")
		args = append(args, *filter.TargetID)
	}
	if filter.State != nil {
		query.WriteString(" AND state = ?")
		args = append(args, *filter.State)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*sitevec.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FinishRun records the terminal state and counters of a run.
func (s *RunService) FinishRun(ctx context.Context, id string, upd sitevec.RunUpdate) (*sitevec.Run, error) {
	if upd.State != sitevec.RunStateDone && upd.State != sitevec.RunStateFailed {
		return nil, sitevec.Errorf(sitevec.EINVALID, "invalid terminal state %q", upd.State)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET state = ?, staged = ?, failed = ?, batches = ?, bytes = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, upd.State, upd.Staged, upd.Failed, upd.Batches, upd.Bytes, upd.Error,
		formatTime(time.Now()), id)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, sitevec.Errorf(sitevec.ENOTFOUND, "run not found")
	}

	return s.FindRunByID(ctx, id)
}

// CreateUpload records a flushed batch.
func (s *RunService) CreateUpload(ctx context.Context, upload *sitevec.Upload) error {
	if err := upload.Validate(); err != nil {
		return err
	}

	upload.ID = uuid.New().String()
	upload.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (id, run_id, batch_id, status, files, completed, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, upload.ID, upload.RunID, upload.BatchID, upload.Status, upload.Files,
		upload.Completed, upload.Failed, formatTime(upload.CreatedAt))

	return err
}

// FindUploads retrieves the uploads of a run in flush order.
func (s *RunService) FindUploads(ctx context.Context, runID string) ([]*sitevec.Upload, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, batch_id, status, files, completed, failed, created_at
		FROM uploads
		WHERE run_id = ?
		ORDER BY created_at, rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*sitevec.Upload
	for rows.Next() {
		var u sitevec.Upload
		var createdAt string
		if err := rows.Scan(&u.ID, &u.RunID, &u.BatchID, &u.Status, &u.Files,
			&u.Completed, &u.Failed, &createdAt); err != nil {
			return nil, err
		}
		if u.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		uploads = append(uploads, &u)
	}
	return uploads, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*sitevec.Run, error) {
	var run sitevec.Run
	var startedAt, finishedAt string

	if err := row.Scan(&run.ID, &run.SeedURL, &run.TargetID, &run.State, &run.Staged,
		&run.Failed, &run.Batches, &run.Bytes, &run.Error, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseOptionalRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
