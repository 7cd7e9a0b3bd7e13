package runs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"signaldrift-backend/internal/docstore"
	"signaldrift-backend/internal/llm"
	"signaldrift-backend/internal/prompts"
)

type fakeLLM struct {
	output string
	err    error
	last   llm.CompleteInput
	calls  int
}

func (f *fakeLLM) Complete(ctx context.Context, input llm.CompleteInput) (string, error) {
	f.calls++
	f.last = input
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

type serviceFixture struct {
	svc        *Service
	promptRepo *prompts.MemoryRepo
	runRepo    *MemoryRepo
	store      *docstore.Store
	llm        *fakeLLM
	prompt     prompts.Prompt
	document   docstore.StoredFile
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	ctx := context.Background()

	promptRepo := prompts.NewMemoryRepo()
	runRepo := NewMemoryRepo(promptRepo)
	store := docstore.New(t.TempDir())
	client := &fakeLLM{output: `{"claims":[]}`}

	prompt := prompts.Prompt{ID: "prompt-1", Text: "extract claims", CreatedAt: time.Now().UTC()}
	if err := promptRepo.Create(ctx, prompt); err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	stored, err := store.Save(ctx, "report.txt", strings.NewReader("emissions fell 10%"))
	if err != nil {
		t.Fatalf("store document: %v", err)
	}

	return &serviceFixture{
		svc: &Service{
			Repo:    runRepo,
			Prompts: promptRepo,
			Docs:    store,
			LLM:     client,
			Model:   "claude-sonnet-4-20250514",
		},
		promptRepo: promptRepo,
		runRepo:    runRepo,
		store:      store,
		llm:        client,
		prompt:     prompt,
		document:   stored,
	}
}

func TestAnalyseCompletes(t *testing.T) {
	fx := newServiceFixture(t)

	run, err := fx.svc.Analyse(context.Background(), fx.prompt.ID, fx.document.Name)
	if err != nil {
		t.Fatalf("analyse: %v", err)
	}

	if run.Status != StatusComplete {
		t.Fatalf("expected status complete, got %s", run.Status)
	}
	if run.Output == nil || *run.Output != `{"claims":[]}` {
		t.Fatalf("unexpected output: %v", run.Output)
	}
	if run.ErrorMessage != nil {
		t.Fatalf("expected no error message, got %q", *run.ErrorMessage)
	}
	if run.DurationMs == nil || *run.DurationMs < 0 {
		t.Fatalf("expected non-negative duration, got %v", run.DurationMs)
	}
	if run.Model != "claude-sonnet-4-20250514" {
		t.Fatalf("expected model captured on run, got %s", run.Model)
	}
	if run.PromptText != fx.prompt.Text {
		t.Fatalf("expected joined prompt text, got %q", run.PromptText)
	}
	if fx.llm.last.System != fx.prompt.Text {
		t.Fatalf("expected prompt text as system instruction, got %q", fx.llm.last.System)
	}
	if fx.llm.last.MediaType != "" {
		t.Fatalf("expected text payload for .txt document, got media type %q", fx.llm.last.MediaType)
	}
	if fx.llm.last.Text != "emissions fell 10%" {
		t.Fatalf("unexpected document text: %q", fx.llm.last.Text)
	}
}

func TestAnalyseSendsBinaryDocumentBlock(t *testing.T) {
	fx := newServiceFixture(t)

	pdfBytes := "%PDF-1.4 fake"
	stored, err := fx.store.Save(context.Background(), "annual.pdf", strings.NewReader(pdfBytes))
	if err != nil {
		t.Fatalf("store pdf: %v", err)
	}

	run, err := fx.svc.Analyse(context.Background(), fx.prompt.ID, stored.Name)
	if err != nil {
		t.Fatalf("analyse: %v", err)
	}
	if run.Status != StatusComplete {
		t.Fatalf("expected complete, got %s", run.Status)
	}
	if fx.llm.last.MediaType != "application/pdf" {
		t.Fatalf("expected application/pdf media type, got %q", fx.llm.last.MediaType)
	}
	if string(fx.llm.last.Data) != pdfBytes {
		t.Fatalf("expected raw bytes forwarded")
	}
}

func TestAnalyseAbsorbsProviderFailure(t *testing.T) {
	fx := newServiceFixture(t)
	fx.llm.err = errors.New("upstream overloaded")

	run, err := fx.svc.Analyse(context.Background(), fx.prompt.ID, fx.document.Name)
	if err != nil {
		t.Fatalf("analyse should not propagate provider failure, got %v", err)
	}

	if run.Status != StatusError {
		t.Fatalf("expected status error, got %s", run.Status)
	}
	if run.ErrorMessage == nil || *run.ErrorMessage != "upstream overloaded" {
		t.Fatalf("unexpected error message: %v", run.ErrorMessage)
	}
	if run.Output != nil {
		t.Fatalf("expected nil output on error, got %q", *run.Output)
	}
	if run.DurationMs != nil {
		t.Fatalf("expected nil duration on error")
	}
}

func TestAnalyseRequiresConfiguredProvider(t *testing.T) {
	fx := newServiceFixture(t)
	fx.svc.LLM = nil

	_, err := fx.svc.Analyse(context.Background(), fx.prompt.ID, fx.document.Name)
	if !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}

	list, err := fx.runRepo.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no run created, got %d", len(list))
	}
}

func TestAnalysePreconditionFailuresCreateNoRun(t *testing.T) {
	fx := newServiceFixture(t)

	if _, err := fx.svc.Analyse(context.Background(), "unknown-prompt", fx.document.Name); !errors.Is(err, ErrPromptNotFound) {
		t.Fatalf("expected ErrPromptNotFound, got %v", err)
	}
	if _, err := fx.svc.Analyse(context.Background(), fx.prompt.ID, "unknown.pdf"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}

	list, err := fx.runRepo.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no run created, got %d", len(list))
	}
	if fx.llm.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", fx.llm.calls)
	}
}

func TestAnalyseSurvivesClientCancellation(t *testing.T) {
	fx := newServiceFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	fx.llm.output = "claim map"
	// Simulate the client going away mid-call: the context is already
	// cancelled when the provider is invoked.
	cancel()

	run, err := fx.svc.Analyse(ctx, fx.prompt.ID, fx.document.Name)
	if err == nil {
		if run.Status != StatusComplete {
			t.Fatalf("expected terminal run, got %s", run.Status)
		}
		return
	}
	// Precondition reads may observe the cancellation before the commit
	// point; that is acceptable as long as no pending run is stranded.
	list, listErr := fx.runRepo.List(context.Background(), "")
	if listErr != nil {
		t.Fatalf("list: %v", listErr)
	}
	for _, r := range list {
		if r.Status == StatusPending {
			t.Fatalf("found stranded pending run %s", r.ID)
		}
	}
}

func TestAnalyseEachCallCreatesNewRun(t *testing.T) {
	fx := newServiceFixture(t)

	first, err := fx.svc.Analyse(context.Background(), fx.prompt.ID, fx.document.Name)
	if err != nil {
		t.Fatalf("analyse: %v", err)
	}
	second, err := fx.svc.Analyse(context.Background(), fx.prompt.ID, fx.document.Name)
	if err != nil {
		t.Fatalf("analyse: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct runs per call")
	}
	if fx.llm.calls != 2 {
		t.Fatalf("expected 2 provider calls, got %d", fx.llm.calls)
	}
}

func TestListFiltersByDocument(t *testing.T) {
	fx := newServiceFixture(t)

	other, err := fx.store.Save(context.Background(), "other.txt", strings.NewReader("different report"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	if _, err := fx.svc.Analyse(context.Background(), fx.prompt.ID, fx.document.Name); err != nil {
		t.Fatalf("analyse: %v", err)
	}
	if _, err := fx.svc.Analyse(context.Background(), fx.prompt.ID, other.Name); err != nil {
		t.Fatalf("analyse: %v", err)
	}

	filtered, err := fx.svc.List(context.Background(), fx.document.Name)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 filtered run, got %d", len(filtered))
	}
	if filtered[0].DocumentFilename != fx.document.Name {
		t.Fatalf("unexpected document on filtered run: %s", filtered[0].DocumentFilename)
	}

	all, err := fx.svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(all))
	}
}
