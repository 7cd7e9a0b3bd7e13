package prompts

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores prompts in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Prompt
	seeded bool
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Prompt)}
}

// Create stores the prompt.
func (r *MemoryRepo) Create(ctx context.Context, prompt Prompt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[prompt.ID] = prompt
	return nil
}

// GetByID returns a prompt by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, promptID string) (Prompt, error) {
	if err := ctx.Err(); err != nil {
		return Prompt{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	prompt, ok := r.byID[promptID]
	if !ok {
		return Prompt{}, ErrNotFound
	}
	return prompt, nil
}

// List returns all prompts, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Prompt, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SeedDefault inserts the default prompt once; the mutex plus the seeded flag
// keep concurrent initializations from double-inserting.
func (r *MemoryRepo) SeedDefault(ctx context.Context, prompt Prompt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seeded {
		return nil
	}
	r.byID[prompt.ID] = prompt
	r.seeded = true
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
