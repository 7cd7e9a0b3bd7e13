package prompts

import "context"

// DefaultSeedKey marks the one bootstrap-seeded prompt. The uniqueness
// constraint on this key is what makes seeding race-safe.
const DefaultSeedKey = "default"

// Repo defines persistence operations for prompts.
type Repo interface {
	Create(ctx context.Context, prompt Prompt) error
	GetByID(ctx context.Context, promptID string) (Prompt, error)
	List(ctx context.Context) ([]Prompt, error)
	// SeedDefault inserts the given prompt under DefaultSeedKey unless a
	// seeded prompt already exists. It must be idempotent under concurrency.
	SeedDefault(ctx context.Context, prompt Prompt) error
}
