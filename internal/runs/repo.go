package runs

import "context"

// Repo defines persistence operations for the run ledger. Reads join the
// prompt text onto the returned runs. The ledger does not validate foreign
// references; that is the lifecycle manager's job.
type Repo interface {
	Create(ctx context.Context, run Run) error
	GetByID(ctx context.Context, runID string) (Run, error)
	// UpdateOutcome overwrites the mutable fields of an existing run. It is
	// called exactly once per run, by the request that created it.
	UpdateOutcome(ctx context.Context, runID, status string, output, errorMessage *string, durationMs *int64) error
	// List returns runs newest first, filtered to one document when
	// documentFilename is non-empty.
	List(ctx context.Context, documentFilename string) ([]Run, error)
}
