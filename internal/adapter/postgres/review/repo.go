// Package review implements the moderator review ledger using PostgreSQL.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides review persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, submission_id, reviewer_id, status, comments,
quality_rating, accuracy_score, clarity_score, theological_soundness,
reviewed_at, created_at`

const createSQL = `
INSERT INTO explanation_reviews (
    id, submission_id, reviewer_id, status, comments,
    quality_rating, accuracy_score, clarity_score, theological_soundness,
    reviewed_at, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

const existsSQL = `
SELECT EXISTS (
    SELECT 1 FROM explanation_reviews WHERE submission_id = $1 AND reviewer_id = $2
)`

const listBySubmissionSQL = `
SELECT ` + columns + `
FROM explanation_reviews WHERE submission_id = $1 ORDER BY created_at ASC`

const listByReviewerSQL = `
SELECT ` + columns + `
FROM explanation_reviews WHERE reviewer_id = $1 ORDER BY created_at DESC LIMIT $2`

const scoresSQL = `
SELECT
    count(*) AS total,
    avg(quality_rating),
    avg(accuracy_score),
    avg(clarity_score),
    avg(theological_soundness)
FROM explanation_reviews
WHERE submission_id = $1`

const countAllSQL = `SELECT count(*) FROM explanation_reviews`

const countCreatedOnSQL = `
SELECT count(*) FROM explanation_reviews
WHERE created_at >= $1 AND created_at < $2`

// Create inserts a new review. Returns domain.ErrAlreadyExists if the
// reviewer already reviewed the submission.
func (r *Repo) Create(ctx context.Context, rv *domain.Review) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, createSQL,
		rv.ID, rv.SubmissionID, rv.ReviewerID, rv.Status.String(), rv.Comments,
		rv.QualityRating, rv.AccuracyScore, rv.ClarityScore, rv.TheologicalSoundness,
		rv.ReviewedAt, rv.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "review", rv.ID)
	}
	return nil
}

// Exists reports whether the reviewer already reviewed the submission.
func (r *Repo) Exists(ctx context.Context, submissionID, reviewerID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, existsSQL, submissionID, reviewerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return exists, nil
}

// ListBySubmission returns all reviews of a submission, oldest first.
func (r *Repo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	return r.list(ctx, querier, listBySubmissionSQL, submissionID)
}

// ListByReviewer returns a reviewer's recent reviews, newest first.
func (r *Repo) ListByReviewer(ctx context.Context, reviewerID uuid.UUID, limit int) ([]domain.Review, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	if limit <= 0 {
		limit = 50
	}
	return r.list(ctx, querier, listByReviewerSQL, reviewerID, limit)
}

// Scores returns per-criterion averages over the reviews of a submission,
// computed entirely in SQL.
func (r *Repo) Scores(ctx context.Context, submissionID uuid.UUID) (domain.ReviewScores, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.ReviewScores
	err := querier.QueryRow(ctx, scoresSQL, submissionID).Scan(
		&s.ReviewCount, &s.AvgQuality, &s.AvgAccuracy, &s.AvgClarity, &s.AvgTheological)
	if err != nil {
		return domain.ReviewScores{}, fmt.Errorf("review scores: %w", err)
	}
	return s, nil
}

// CountAll returns the total review count for the analytics snapshots.
func (r *Repo) CountAll(ctx context.Context) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countAllSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

// CountCreatedOn returns how many reviews were written on the given UTC
// calendar date.
func (r *Repo) CountCreatedOn(ctx context.Context, date time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int
	if err := querier.QueryRow(ctx, countCreatedOnSQL, dayStart, dayEnd).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews in day: %w", err)
	}
	return count, nil
}

func (r *Repo) list(ctx context.Context, querier postgres.Querier, sql string, args ...any) ([]domain.Review, error) {
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var (
			rv     domain.Review
			status string
		)
		err := rows.Scan(
			&rv.ID, &rv.SubmissionID, &rv.ReviewerID, &status, &rv.Comments,
			&rv.QualityRating, &rv.AccuracyScore, &rv.ClarityScore, &rv.TheologicalSoundness,
			&rv.ReviewedAt, &rv.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		rv.Status = domain.ReviewStatus(status)
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}
