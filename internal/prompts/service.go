package prompts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for prompts.
type Service struct {
	Repo Repo
}

// Create stores a new prompt with a generated ID and timestamp.
func (s *Service) Create(ctx context.Context, text string) (Prompt, error) {
	if strings.TrimSpace(text) == "" {
		return Prompt{}, ErrInvalidInput
	}
	prompt := Prompt{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, prompt); err != nil {
		return Prompt{}, err
	}
	return prompt, nil
}

// Get returns a prompt by ID.
func (s *Service) Get(ctx context.Context, promptID string) (Prompt, error) {
	return s.Repo.GetByID(ctx, promptID)
}

// List returns all prompts, newest first.
func (s *Service) List(ctx context.Context) ([]Prompt, error) {
	return s.Repo.List(ctx)
}

// EnsureDefault seeds the built-in claim-map prompt into an empty store.
// Safe to invoke on every bootstrap; the repo guarantees at most one insert.
func (s *Service) EnsureDefault(ctx context.Context) error {
	return s.Repo.SeedDefault(ctx, Prompt{
		ID:        uuid.NewString(),
		Text:      DefaultPromptText,
		CreatedAt: time.Now().UTC(),
	})
}
