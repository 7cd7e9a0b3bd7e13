package runs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"signaldrift-backend/internal/docstore"
	"signaldrift-backend/internal/llm"
	"signaldrift-backend/internal/prompts"
	"signaldrift-backend/internal/shared/telemetry"
)

// PromptLookup resolves prompt references at analyse time.
type PromptLookup interface {
	GetByID(ctx context.Context, promptID string) (prompts.Prompt, error)
}

// DocumentStore is the slice of the document store the lifecycle manager needs.
type DocumentStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	Read(ctx context.Context, name string) ([]byte, error)
}

// Service is the run lifecycle manager. It holds no state of its own; every
// invocation re-derives behavior from ledger reads and writes.
type Service struct {
	Repo    Repo
	Prompts PromptLookup
	Docs    DocumentStore
	LLM     llm.Client
	Model   string
}

// Analyse executes one analysis request end-to-end: precondition checks, a
// durable pending record, the provider call, and exactly one terminal write.
// Once the pending record is committed every outcome is returned as a Run;
// provider failures become error-status runs, never transport errors.
func (s *Service) Analyse(ctx context.Context, promptID, documentFilename string) (Run, error) {
	if s.LLM == nil {
		return Run{}, ErrProviderNotConfigured
	}

	prompt, err := s.Prompts.GetByID(ctx, promptID)
	if err != nil {
		if errors.Is(err, prompts.ErrNotFound) {
			return Run{}, ErrPromptNotFound
		}
		return Run{}, err
	}

	exists, err := s.Docs.Exists(ctx, documentFilename)
	if err != nil {
		if errors.Is(err, docstore.ErrInvalidName) {
			return Run{}, ErrDocumentNotFound
		}
		return Run{}, err
	}
	if !exists {
		return Run{}, ErrDocumentNotFound
	}

	run := Run{
		ID:               uuid.NewString(),
		PromptID:         promptID,
		DocumentFilename: documentFilename,
		Model:            s.Model,
		Status:           StatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, run); err != nil {
		return Run{}, err
	}

	// Commit point passed. Detach from the request context so a client
	// disconnect cannot strand the run in pending.
	ctx = context.WithoutCancel(ctx)

	outcome := s.invokeProvider(ctx, prompt.Text, documentFilename)
	if outcome.completed {
		err = s.Repo.UpdateOutcome(ctx, run.ID, StatusComplete, &outcome.output, nil, &outcome.durationMs)
	} else {
		err = s.Repo.UpdateOutcome(ctx, run.ID, StatusError, nil, &outcome.errMessage, nil)
	}
	if err != nil {
		return Run{}, err
	}

	final, err := s.Repo.GetByID(ctx, run.ID)
	if err != nil {
		return Run{}, err
	}

	telemetry.Info("run.finished", map[string]any{
		"run_id":            final.ID,
		"prompt_id":         final.PromptID,
		"document_filename": final.DocumentFilename,
		"model":             final.Model,
		"status":            final.Status,
	})
	return final, nil
}

// Get returns one run with its prompt text.
func (s *Service) Get(ctx context.Context, runID string) (Run, error) {
	return s.Repo.GetByID(ctx, runID)
}

// List returns runs newest first, optionally filtered to one document.
func (s *Service) List(ctx context.Context, documentFilename string) ([]Run, error) {
	return s.Repo.List(ctx, documentFilename)
}

// providerOutcome is the terminal result of one provider invocation. Failures
// are data here, not errors; Analyse pattern-matches it into the ledger write.
type providerOutcome struct {
	completed  bool
	output     string
	durationMs int64
	errMessage string
}

func (s *Service) invokeProvider(ctx context.Context, system, documentFilename string) providerOutcome {
	data, err := s.Docs.Read(ctx, documentFilename)
	if err != nil {
		return providerOutcome{errMessage: "read document: " + err.Error()}
	}

	input := llm.CompleteInput{
		System:   system,
		FileName: documentFilename,
	}
	if mediaType, ok := docstore.MediaType(documentFilename); ok {
		input.MediaType = mediaType
		input.Data = data
	} else {
		input.Text = strings.ToValidUTF8(string(data), "�")
	}

	start := time.Now()
	output, err := s.LLM.Complete(ctx, input)
	if err != nil {
		return providerOutcome{errMessage: err.Error()}
	}
	return providerOutcome{
		completed:  true,
		output:     output,
		durationMs: time.Since(start).Milliseconds(),
	}
}
