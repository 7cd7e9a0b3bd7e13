package runs

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new pending run.
func (r *PGRepo) Create(ctx context.Context, run Run) error {
	const query = `
INSERT INTO runs (id, prompt_id, document_filename, model, status, output, error_message, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		run.ID,
		run.PromptID,
		run.DocumentFilename,
		run.Model,
		run.Status,
		run.Output,
		run.ErrorMessage,
		run.DurationMs,
		run.CreatedAt,
	)
	return err
}

// GetByID returns a run by ID with its prompt text joined.
func (r *PGRepo) GetByID(ctx context.Context, runID string) (Run, error) {
	const query = `
SELECT r.id, r.prompt_id, r.document_filename, r.model, r.status,
       r.output, r.error_message, r.duration_ms, r.created_at, p.text
FROM runs r
JOIN prompts p ON r.prompt_id = p.id
WHERE r.id = $1
LIMIT 1`
	run, err := scanRun(r.DB.QueryRowContext(ctx, query, runID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}
	return run, nil
}

// UpdateOutcome overwrites the mutable fields of an existing run.
func (r *PGRepo) UpdateOutcome(ctx context.Context, runID, status string, output, errorMessage *string, durationMs *int64) error {
	const query = `
UPDATE runs
SET status = $1,
    output = $2,
    error_message = $3,
    duration_ms = $4
WHERE id = $5`
	res, err := r.DB.ExecContext(ctx, query, status, output, errorMessage, durationMs, runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns runs newest first, optionally filtered to one document.
func (r *PGRepo) List(ctx context.Context, documentFilename string) ([]Run, error) {
	const base = `
SELECT r.id, r.prompt_id, r.document_filename, r.model, r.status,
       r.output, r.error_message, r.duration_ms, r.created_at, p.text
FROM runs r
JOIN prompts p ON r.prompt_id = p.id`

	var (
		rows *sql.Rows
		err  error
	)
	if documentFilename != "" {
		rows, err = r.DB.QueryContext(ctx, base+`
WHERE r.document_filename = $1
ORDER BY r.created_at DESC`, documentFilename)
	} else {
		rows, err = r.DB.QueryContext(ctx, base+`
ORDER BY r.created_at DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var output sql.NullString
	var errorMessage sql.NullString
	var durationMs sql.NullInt64
	err := row.Scan(
		&run.ID,
		&run.PromptID,
		&run.DocumentFilename,
		&run.Model,
		&run.Status,
		&output,
		&errorMessage,
		&durationMs,
		&run.CreatedAt,
		&run.PromptText,
	)
	if err != nil {
		return Run{}, err
	}
	if output.Valid {
		run.Output = &output.String
	}
	if errorMessage.Valid {
		run.ErrorMessage = &errorMessage.String
	}
	if durationMs.Valid {
		run.DurationMs = &durationMs.Int64
	}
	return run, nil
}

var _ Repo = (*PGRepo)(nil)
