// Package submission implements the explanation submission repository using
// PostgreSQL. Fixed queries use raw SQL; the filtered listing and the
// moderation queue use squirrel because their shape varies at runtime.
package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides submission persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new submission repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const columns = `id, question_id, submitter_id, language_code, content_type,
text_content, file_url, file_size_bytes, file_mime_type,
status, quality_score, view_count, helpful_count,
submitted_at, reviewed_at, approved_at, created_at, updated_at`

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO explanation_submissions (
    id, question_id, submitter_id, language_code, content_type,
    text_content, file_url, file_size_bytes, file_mime_type,
    status, quality_score, view_count, helpful_count,
    submitted_at, reviewed_at, approved_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

const getByIDSQL = `
SELECT ` + columns + `
FROM explanation_submissions WHERE id = $1`

const getByIDForUpdateSQL = getByIDSQL + ` FOR UPDATE`

const updateSQL = `
UPDATE explanation_submissions SET
    text_content = $2, status = $3, quality_score = $4,
    view_count = $5, helpful_count = $6,
    reviewed_at = $7, approved_at = $8, updated_at = $9
WHERE id = $1`

const deleteSQL = `DELETE FROM explanation_submissions WHERE id = $1`

const incrementViewSQL = `
UPDATE explanation_submissions SET view_count = view_count + 1 WHERE id = $1`

const countByStatusSQL = `
SELECT status, count(*) FROM explanation_submissions GROUP BY status`

const countByTypeSQL = `
SELECT content_type, count(*) FROM explanation_submissions GROUP BY content_type`

const countByLanguageSQL = `
SELECT language_code, count(*) FROM explanation_submissions GROUP BY language_code`

const countSubmittedOnSQL = `
SELECT count(*) FROM explanation_submissions
WHERE submitted_at >= $1 AND submitted_at < $2`

const countApprovedOnSQL = `
SELECT count(*) FROM explanation_submissions
WHERE approved_at >= $1 AND approved_at < $2`

const avgQualitySQL = `
SELECT avg(quality_score) FROM explanation_submissions
WHERE status = 'APPROVED' AND quality_score IS NOT NULL`

const topByQualitySQL = `
SELECT ` + columns + `
FROM explanation_submissions
WHERE status = 'APPROVED' AND quality_score IS NOT NULL
ORDER BY quality_score DESC, approved_at ASC
LIMIT $1`

const topVotedByQuestionSQL = `
SELECT ` + columns + `
FROM explanation_submissions
WHERE question_id = $1 AND status = 'APPROVED'
ORDER BY helpful_count DESC, approved_at ASC
LIMIT $2`

// Average hours from submission to first review, over every submission
// that has been reviewed at least once.
const avgReviewHoursSQL = `
SELECT avg(extract(epoch FROM (fr.first_reviewed - s.submitted_at)) / 3600.0)
FROM explanation_submissions s
JOIN (
    SELECT submission_id, min(created_at) AS first_reviewed
    FROM explanation_reviews
    GROUP BY submission_id
) fr ON fr.submission_id = s.id`

// ---------------------------------------------------------------------------
// CRUD
// ---------------------------------------------------------------------------

// Create inserts a new submission.
func (r *Repo) Create(ctx context.Context, s *domain.Submission) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, createSQL,
		s.ID, s.QuestionID, s.SubmitterID, s.LanguageCode, s.ContentType.String(),
		s.TextContent, s.FileURL, s.FileSizeBytes, s.FileMimeType,
		s.Status.String(), s.QualityScore, s.ViewCount, s.HelpfulCount,
		s.SubmittedAt, s.ReviewedAt, s.ApprovedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "submission", s.ID)
	}
	return nil
}

// GetByID returns a submission by ID. Returns domain.ErrNotFound if missing.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	return r.scanOne(querier.QueryRow(ctx, getByIDSQL, id), id)
}

// GetByIDForUpdate returns a submission with a row lock held for the rest of
// the surrounding transaction. Callers must be inside RunInTx; on the bare
// pool the lock is released immediately and provides no serialization.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	return r.scanOne(querier.QueryRow(ctx, getByIDForUpdateSQL, id), id)
}

// Update persists the mutable fields of a submission.
func (r *Repo) Update(ctx context.Context, s *domain.Submission) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateSQL,
		s.ID, s.TextContent, s.Status.String(), s.QualityScore,
		s.ViewCount, s.HelpfulCount, s.ReviewedAt, s.ApprovedAt, s.UpdatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "submission", s.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s: %w", s.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a submission by ID. Ledger rows cascade at the schema level.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "submission", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// IncrementViewCount bumps the view counter without touching updated_at.
// Views are not content changes.
func (r *Repo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, incrementViewSQL, id)
	if err != nil {
		return postgres.MapError(err, "submission", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

// List returns submissions matching the filter plus the total match count.
func (r *Repo) List(ctx context.Context, df domain.SubmissionFilter) ([]*domain.Submission, int, error) {
	f := filter{SubmissionFilter: df}
	f.normalize()
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	where := f.where()

	countQ := psql.Select("count(*)").From("explanation_submissions").Where(where)
	sql, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build submission count query: %w", err)
	}
	var total int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	listQ := psql.Select(columns).
		From("explanation_submissions").
		Where(where).
		OrderBy(f.orderBy()).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))
	sql, args, err = listQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build submission list query: %w", err)
	}

	subs, err := r.queryMany(ctx, querier, sql, args)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ModerationQueue returns submissions awaiting moderator attention:
// FLAGGED first, then UNDER_REVIEW, then PENDING, oldest first within each
// bucket.
func (r *Repo) ModerationQueue(ctx context.Context, limit, offset int) ([]*domain.Submission, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if limit <= 0 {
		limit = defaultLimit
	}

	q := psql.Select(columns).
		From("explanation_submissions").
		Where(squirrel.Eq{"status": []string{
			domain.SubmissionStatusFlagged.String(),
			domain.SubmissionStatusUnderReview.String(),
			domain.SubmissionStatusPending.String(),
		}}).
		OrderBy(
			`CASE status
    WHEN 'FLAGGED' THEN 0
    WHEN 'UNDER_REVIEW' THEN 1
    ELSE 2
END`,
			"submitted_at ASC",
		).
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build moderation queue query: %w", err)
	}

	return r.queryMany(ctx, querier, sql, args)
}

// ---------------------------------------------------------------------------
// Aggregates
// ---------------------------------------------------------------------------

// CountByStatus returns submission counts grouped by status.
func (r *Repo) CountByStatus(ctx context.Context) (map[domain.SubmissionStatus]int, error) {
	return groupCount(ctx, r.pool, countByStatusSQL, func(s string) domain.SubmissionStatus {
		return domain.SubmissionStatus(s)
	})
}

// CountByType returns submission counts grouped by content type.
func (r *Repo) CountByType(ctx context.Context) (map[domain.ContentType]int, error) {
	return groupCount(ctx, r.pool, countByTypeSQL, func(s string) domain.ContentType {
		return domain.ContentType(s)
	})
}

// CountByLanguage returns submission counts grouped by language code.
func (r *Repo) CountByLanguage(ctx context.Context) (map[string]int, error) {
	return groupCount(ctx, r.pool, countByLanguageSQL, func(s string) string { return s })
}

// CountSubmittedOn returns how many submissions were submitted on the given
// UTC calendar date.
func (r *Repo) CountSubmittedOn(ctx context.Context, date time.Time) (int, error) {
	return r.countInDay(ctx, countSubmittedOnSQL, date)
}

// CountApprovedOn returns how many submissions were approved on the given
// UTC calendar date.
func (r *Repo) CountApprovedOn(ctx context.Context, date time.Time) (int, error) {
	return r.countInDay(ctx, countApprovedOnSQL, date)
}

// AvgQualityScore returns the mean quality score over approved, scored
// submissions, or nil when none exist.
func (r *Repo) AvgQualityScore(ctx context.Context) (*float64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var avg *float64
	if err := querier.QueryRow(ctx, avgQualitySQL).Scan(&avg); err != nil {
		return nil, fmt.Errorf("avg quality score: %w", err)
	}
	return avg, nil
}

// TopByQuality returns approved submissions ordered by quality score
// descending.
func (r *Repo) TopByQuality(ctx context.Context, limit int) ([]*domain.Submission, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	if limit <= 0 {
		limit = defaultLimit
	}
	return r.queryMany(ctx, querier, topByQualitySQL, []any{limit})
}

// TopVotedByQuestion returns a question's approved submissions ordered by
// helpful votes descending.
func (r *Repo) TopVotedByQuestion(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.Submission, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	if limit <= 0 {
		limit = defaultLimit
	}
	return r.queryMany(ctx, querier, topVotedByQuestionSQL, []any{questionID, limit})
}

// AvgReviewHours returns the mean hours from submission to first review,
// or nil when nothing has been reviewed yet.
func (r *Repo) AvgReviewHours(ctx context.Context) (*float64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var avg *float64
	if err := querier.QueryRow(ctx, avgReviewHoursSQL).Scan(&avg); err != nil {
		return nil, fmt.Errorf("avg review hours: %w", err)
	}
	return avg, nil
}

// ---------------------------------------------------------------------------
// Scanning helpers
// ---------------------------------------------------------------------------

func (r *Repo) scanOne(row pgx.Row, id uuid.UUID) (*domain.Submission, error) {
	var (
		s           domain.Submission
		contentType string
		status      string
	)
	err := row.Scan(
		&s.ID, &s.QuestionID, &s.SubmitterID, &s.LanguageCode, &contentType,
		&s.TextContent, &s.FileURL, &s.FileSizeBytes, &s.FileMimeType,
		&status, &s.QualityScore, &s.ViewCount, &s.HelpfulCount,
		&s.SubmittedAt, &s.ReviewedAt, &s.ApprovedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "submission", id)
	}
	s.ContentType = domain.ContentType(contentType)
	s.Status = domain.SubmissionStatus(status)
	return &s, nil
}

func (r *Repo) queryMany(ctx context.Context, querier postgres.Querier, sql string, args []any) ([]*domain.Submission, error) {
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	subs := []*domain.Submission{}
	for rows.Next() {
		var (
			s           domain.Submission
			contentType string
			status      string
		)
		err := rows.Scan(
			&s.ID, &s.QuestionID, &s.SubmitterID, &s.LanguageCode, &contentType,
			&s.TextContent, &s.FileURL, &s.FileSizeBytes, &s.FileMimeType,
			&status, &s.QualityScore, &s.ViewCount, &s.HelpfulCount,
			&s.SubmittedAt, &s.ReviewedAt, &s.ApprovedAt, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		s.ContentType = domain.ContentType(contentType)
		s.Status = domain.SubmissionStatus(status)
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

// groupCount is package-level because methods cannot carry type parameters.
func groupCount[K comparable](ctx context.Context, pool *pgxpool.Pool, sql string, key func(string) K) (map[K]int, error) {
	querier := postgres.QuerierFromCtx(ctx, pool)

	rows, err := querier.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("group count submissions: %w", err)
	}
	defer rows.Close()

	counts := map[K]int{}
	for rows.Next() {
		var (
			k string
			n int
		)
		if err := rows.Scan(&k, &n); err != nil {
			return nil, fmt.Errorf("scan group count: %w", err)
		}
		counts[key(k)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group counts: %w", err)
	}
	return counts, nil
}

func (r *Repo) countInDay(ctx context.Context, sql string, date time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int
	if err := querier.QueryRow(ctx, sql, dayStart, dayEnd).Scan(&count); err != nil {
		return 0, fmt.Errorf("count submissions in day: %w", err)
	}
	return count, nil
}
