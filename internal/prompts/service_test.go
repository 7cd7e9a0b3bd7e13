package prompts

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestCreateAndListNewestFirst(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	first, err := svc.Create(ctx, "first prompt")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Distinct timestamps so ordering is deterministic.
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Create(ctx, "second prompt")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest-first order, got %s then %s", list[0].ID, list[1].ID)
	}
}

func TestCreateRejectsEmptyText(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	if _, err := svc.Create(context.Background(), "   "); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEnsureDefaultIdempotent(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	if err := svc.EnsureDefault(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := svc.EnsureDefault(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one default prompt, got %d", len(list))
	}
	if list[0].Text != DefaultPromptText {
		t.Fatalf("seeded prompt text mismatch")
	}
}

func TestEnsureDefaultConcurrent(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.EnsureDefault(ctx); err != nil {
				t.Errorf("seed: %v", err)
			}
		}()
	}
	wg.Wait()

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one default prompt after concurrent seeding, got %d", len(list))
	}
}

func TestGetUnknownPrompt(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	if _, err := svc.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
