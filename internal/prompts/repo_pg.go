package prompts

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new prompt.
func (r *PGRepo) Create(ctx context.Context, prompt Prompt) error {
	const query = `
INSERT INTO prompts (id, text, created_at)
VALUES ($1, $2, $3)`
	_, err := r.DB.ExecContext(ctx, query, prompt.ID, prompt.Text, prompt.CreatedAt)
	return err
}

// GetByID returns a prompt by ID.
func (r *PGRepo) GetByID(ctx context.Context, promptID string) (Prompt, error) {
	const query = `
SELECT id, text, created_at
FROM prompts
WHERE id = $1
LIMIT 1`
	var p Prompt
	err := r.DB.QueryRowContext(ctx, query, promptID).Scan(&p.ID, &p.Text, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Prompt{}, ErrNotFound
		}
		return Prompt{}, err
	}
	return p, nil
}

// List returns all prompts, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Prompt, error) {
	const query = `
SELECT id, text, created_at
FROM prompts
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Prompt{}
	for rows.Next() {
		var p Prompt
		if err := rows.Scan(&p.ID, &p.Text, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SeedDefault inserts the default prompt once. The unique constraint on
// seed_key suppresses duplicates when two initializations race.
func (r *PGRepo) SeedDefault(ctx context.Context, prompt Prompt) error {
	const query = `
INSERT INTO prompts (id, text, seed_key, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (seed_key) DO NOTHING`
	_, err := r.DB.ExecContext(ctx, query, prompt.ID, prompt.Text, DefaultSeedKey, prompt.CreatedAt)
	return err
}

var _ Repo = (*PGRepo)(nil)
