package prompts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	prompt := Prompt{
		ID:        "prompt-1",
		Text:      "extract the claims",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO prompts").
		WithArgs(prompt.ID, prompt.Text, prompt.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), prompt); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSeedDefaultUsesConflictSuppression(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	prompt := Prompt{
		ID:        "prompt-default",
		Text:      DefaultPromptText,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec(`ON CONFLICT \(seed_key\) DO NOTHING`).
		WithArgs(prompt.ID, prompt.Text, DefaultSeedKey, prompt.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SeedDefault(context.Background(), prompt); err != nil {
		t.Fatalf("SeedDefault: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, text, created_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "created_at"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListOrdersNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "text", "created_at"}).
		AddRow("p2", "newer", now).
		AddRow("p1", "older", now.Add(-time.Hour))
	mock.ExpectQuery("ORDER BY created_at DESC").
		WillReturnRows(rows)

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(list))
	}
	if list[0].ID != "p2" {
		t.Fatalf("expected p2 first, got %s", list[0].ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
