// Package vote implements the explanation vote ledger using PostgreSQL.
package vote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides vote persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new vote repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, submission_id, user_id, is_helpful, comment, created_at`

const createSQL = `
INSERT INTO explanation_votes (id, submission_id, user_id, is_helpful, comment, created_at)
VALUES ($1,$2,$3,$4,$5,$6)`

const getBySubmissionAndUserSQL = `
SELECT ` + columns + `
FROM explanation_votes WHERE submission_id = $1 AND user_id = $2`

const deleteSQL = `DELETE FROM explanation_votes WHERE id = $1`

const listBySubmissionSQL = `
SELECT ` + columns + `
FROM explanation_votes WHERE submission_id = $1 ORDER BY created_at DESC`

const listByUserSQL = `
SELECT ` + columns + `
FROM explanation_votes WHERE user_id = $1 ORDER BY created_at DESC`

const statsSQL = `
SELECT
    count(*) AS total,
    count(*) FILTER (WHERE is_helpful) AS helpful
FROM explanation_votes
WHERE submission_id = $1`

const countHelpfulSQL = `
SELECT count(*) FROM explanation_votes WHERE submission_id = $1 AND is_helpful`

const globalStatsSQL = `
SELECT
    count(*) AS total,
    count(*) FILTER (WHERE is_helpful) AS helpful
FROM explanation_votes`

// Create inserts a new vote. Returns domain.ErrAlreadyExists if the
// (submission, user) pair already voted.
func (r *Repo) Create(ctx context.Context, v *domain.Vote) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, createSQL,
		v.ID, v.SubmissionID, v.UserID, v.IsHelpful, v.Comment, v.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "vote", v.ID)
	}
	return nil
}

// GetBySubmissionAndUser returns the user's vote on a submission.
// Returns domain.ErrNotFound if the user has not voted.
func (r *Repo) GetBySubmissionAndUser(ctx context.Context, submissionID, userID uuid.UUID) (*domain.Vote, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var v domain.Vote
	err := querier.QueryRow(ctx, getBySubmissionAndUserSQL, submissionID, userID).Scan(
		&v.ID, &v.SubmissionID, &v.UserID, &v.IsHelpful, &v.Comment, &v.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "vote", submissionID)
	}
	return &v, nil
}

// Delete removes a vote by ID.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "vote", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vote %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListBySubmission returns all votes on a submission, newest first.
func (r *Repo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Vote, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listBySubmissionSQL, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list votes by submission: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ID, &v.SubmissionID, &v.UserID, &v.IsHelpful, &v.Comment, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return votes, nil
}

// ListByUser returns every vote the user has cast, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Vote, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list votes by user: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ID, &v.SubmissionID, &v.UserID, &v.IsHelpful, &v.Comment, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return votes, nil
}

// Statistics returns the vote counts for a submission, computed in SQL.
func (r *Repo) Statistics(ctx context.Context, submissionID uuid.UUID) (domain.VoteStatistics, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total, helpful int
	if err := querier.QueryRow(ctx, statsSQL, submissionID).Scan(&total, &helpful); err != nil {
		return domain.VoteStatistics{}, fmt.Errorf("vote statistics: %w", err)
	}

	stats := domain.VoteStatistics{
		TotalVotes:     total,
		HelpfulVotes:   helpful,
		UnhelpfulVotes: total - helpful,
	}
	if total > 0 {
		stats.HelpfulPercentage = float64(helpful) / float64(total) * 100
	}
	return stats, nil
}

// CountHelpful returns the helpful-vote count for a submission. Used to
// verify the denormalized counter after mutations.
func (r *Repo) CountHelpful(ctx context.Context, submissionID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countHelpfulSQL, submissionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count helpful votes: %w", err)
	}
	return count, nil
}

// GlobalStatistics returns platform-wide vote counts for the analytics
// snapshots.
func (r *Repo) GlobalStatistics(ctx context.Context) (total, helpful int, err error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if err := querier.QueryRow(ctx, globalStatsSQL).Scan(&total, &helpful); err != nil {
		return 0, 0, fmt.Errorf("global vote statistics: %w", err)
	}
	return total, helpful, nil
}
