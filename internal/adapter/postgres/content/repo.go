// Package content implements read-side access to the catechetical corpus
// (acts, booklets, questions). The corpus is owned by an external editorial
// system; this side only checks existence and counts.
package content

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
)

// Repo provides corpus reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new content repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const questionExistsSQL = `SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1)`

const questionLabelSQL = `SELECT question_text FROM questions WHERE id = $1`

const countsSQL = `
SELECT
    (SELECT count(*) FROM questions),
    (SELECT count(*) FROM booklets),
    (SELECT count(*) FROM acts)`

// QuestionExists reports whether the catechism question exists.
func (r *Repo) QuestionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, questionExistsSQL, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check question exists: %w", err)
	}
	return exists, nil
}

// QuestionLabel returns the question text for display in rankings.
func (r *Repo) QuestionLabel(ctx context.Context, id uuid.UUID) (string, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var label string
	if err := querier.QueryRow(ctx, questionLabelSQL, id).Scan(&label); err != nil {
		return "", postgres.MapError(err, "question", id)
	}
	return label, nil
}

// Counts returns the corpus sizes for the analytics snapshots.
func (r *Repo) Counts(ctx context.Context) (questions, booklets, acts int, err error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if err := querier.QueryRow(ctx, countsSQL).Scan(&questions, &booklets, &acts); err != nil {
		return 0, 0, 0, fmt.Errorf("count corpus: %w", err)
	}
	return questions, booklets, acts, nil
}
