package runs

import (
	"context"
	"sort"
	"sync"

	"signaldrift-backend/internal/prompts"
)

// MemoryRepo stores runs in memory and is safe for concurrent use. Prompt
// text joins go through the prompts repo, mirroring the SQL join.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Run
	Prompts prompts.Repo
}

// NewMemoryRepo constructs a MemoryRepo joining against promptRepo.
func NewMemoryRepo(promptRepo prompts.Repo) *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Run),
		Prompts: promptRepo,
	}
}

// Create stores the run.
func (r *MemoryRepo) Create(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[run.ID] = run
	return nil
}

// GetByID returns a run by its ID with prompt text attached.
func (r *MemoryRepo) GetByID(ctx context.Context, runID string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	r.mu.RLock()
	run, ok := r.byID[runID]
	r.mu.RUnlock()
	if !ok {
		return Run{}, ErrNotFound
	}
	return r.joinPromptText(ctx, run)
}

// UpdateOutcome overwrites the mutable fields of an existing run.
func (r *MemoryRepo) UpdateOutcome(ctx context.Context, runID, status string, output, errorMessage *string, durationMs *int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.byID[runID]
	if !ok {
		return ErrNotFound
	}
	run.Status = status
	run.Output = output
	run.ErrorMessage = errorMessage
	run.DurationMs = durationMs
	r.byID[runID] = run
	return nil
}

// List returns runs newest first, optionally filtered to one document.
func (r *MemoryRepo) List(ctx context.Context, documentFilename string) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Run, 0, len(r.byID))
	for _, run := range r.byID {
		if documentFilename != "" && run.DocumentFilename != documentFilename {
			continue
		}
		out = append(out, run)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	for i := range out {
		joined, err := r.joinPromptText(ctx, out[i])
		if err != nil {
			return nil, err
		}
		out[i] = joined
	}
	return out, nil
}

func (r *MemoryRepo) joinPromptText(ctx context.Context, run Run) (Run, error) {
	if r.Prompts == nil {
		return run, nil
	}
	prompt, err := r.Prompts.GetByID(ctx, run.PromptID)
	if err != nil {
		// The foreign-key invariant holds at creation time; a missing prompt
		// here is a programming error, not a user-facing condition.
		return run, nil
	}
	run.PromptText = prompt.Text
	return run, nil
}

var _ Repo = (*MemoryRepo)(nil)
