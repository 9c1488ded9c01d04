// Package flag implements the content flag ledger using PostgreSQL.
// The one-open-flag-per-(submission, flagger) rule is enforced by a partial
// unique index, so a concurrent duplicate surfaces as ErrAlreadyExists.
package flag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides flag persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new flag repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, submission_id, flagger_id, reason, details, status,
moderator_id, moderator_notes, resolved_at, created_at, updated_at`

const createSQL = `
INSERT INTO explanation_flags (
    id, submission_id, flagger_id, reason, details, status,
    moderator_id, moderator_notes, resolved_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

const getByIDSQL = `
SELECT ` + columns + `
FROM explanation_flags WHERE id = $1`

const getByIDForUpdateSQL = getByIDSQL + ` FOR UPDATE`

const updateSQL = `
UPDATE explanation_flags SET
    status = $2, moderator_id = $3, moderator_notes = $4,
    resolved_at = $5, updated_at = $6
WHERE id = $1`

const hasOpenByFlaggerSQL = `
SELECT EXISTS (
    SELECT 1 FROM explanation_flags
    WHERE submission_id = $1 AND flagger_id = $2 AND status = 'OPEN'
)`

const countOpenBySubmissionSQL = `
SELECT count(*) FROM explanation_flags WHERE submission_id = $1 AND status = 'OPEN'`

const listBySubmissionSQL = `
SELECT ` + columns + `
FROM explanation_flags WHERE submission_id = $1 ORDER BY created_at DESC`

const listOpenSQL = `
SELECT ` + columns + `
FROM explanation_flags WHERE status = 'OPEN' ORDER BY created_at ASC LIMIT $1`

const listByFlaggerSQL = `
SELECT ` + columns + `
FROM explanation_flags WHERE flagger_id = $1 ORDER BY created_at DESC`

const listResolvedByModeratorSQL = `
SELECT ` + columns + `
FROM explanation_flags
WHERE moderator_id = $1 AND status IN ('RESOLVED', 'DISMISSED')
ORDER BY resolved_at DESC`

const statsSQL = `
SELECT
    count(*) AS total,
    count(*) FILTER (WHERE status = 'OPEN') AS open,
    count(*) FILTER (WHERE status = 'RESOLVED') AS resolved,
    count(*) FILTER (WHERE status = 'DISMISSED') AS dismissed
FROM explanation_flags
WHERE submission_id = $1`

const reasonCountsSQL = `
SELECT reason, count(*) FROM explanation_flags
WHERE submission_id = $1 GROUP BY reason`

const globalCountsSQL = `
SELECT
    count(*) AS total,
    count(*) FILTER (WHERE status = 'OPEN') AS open
FROM explanation_flags`

const countResolvedOnSQL = `
SELECT count(*) FROM explanation_flags
WHERE resolved_at >= $1 AND resolved_at < $2`

// Create inserts a new OPEN flag. Returns domain.ErrAlreadyExists if the
// flagger already has an open flag on the submission.
func (r *Repo) Create(ctx context.Context, f *domain.Flag) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, createSQL,
		f.ID, f.SubmissionID, f.FlaggerID, f.Reason.String(), f.Details, f.Status.String(),
		f.ModeratorID, f.ModeratorNotes, f.ResolvedAt, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return postgres.MapError(err, "flag", f.ID)
	}
	return nil
}

// GetByID returns a flag by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flag, error) {
	return r.getOne(ctx, getByIDSQL, id)
}

// GetByIDForUpdate returns a flag with a row lock held for the surrounding
// transaction. Callers must be inside RunInTx.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Flag, error) {
	return r.getOne(ctx, getByIDForUpdateSQL, id)
}

// Update persists the resolution fields of a flag.
func (r *Repo) Update(ctx context.Context, f *domain.Flag) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateSQL,
		f.ID, f.Status.String(), f.ModeratorID, f.ModeratorNotes, f.ResolvedAt, f.UpdatedAt)
	if err != nil {
		return postgres.MapError(err, "flag", f.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("flag %s: %w", f.ID, domain.ErrNotFound)
	}
	return nil
}

// HasOpenByFlagger reports whether the flagger already has an open flag on
// the submission.
func (r *Repo) HasOpenByFlagger(ctx context.Context, submissionID, flaggerID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, hasOpenByFlaggerSQL, submissionID, flaggerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open flag: %w", err)
	}
	return exists, nil
}

// CountOpenBySubmission returns the number of open flags on a submission.
func (r *Repo) CountOpenBySubmission(ctx context.Context, submissionID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countOpenBySubmissionSQL, submissionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count open flags: %w", err)
	}
	return count, nil
}

// ListBySubmission returns all flags on a submission, newest first.
func (r *Repo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Flag, error) {
	return r.list(ctx, listBySubmissionSQL, submissionID)
}

// ListOpen returns open flags platform-wide, oldest first, for the
// moderation dashboard.
func (r *Repo) ListOpen(ctx context.Context, limit int) ([]domain.Flag, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.list(ctx, listOpenSQL, limit)
}

// ListByFlagger returns every flag a user has raised, newest first.
func (r *Repo) ListByFlagger(ctx context.Context, flaggerID uuid.UUID) ([]domain.Flag, error) {
	return r.list(ctx, listByFlaggerSQL, flaggerID)
}

// ListResolvedByModerator returns the flags a moderator has closed, most
// recently resolved first.
func (r *Repo) ListResolvedByModerator(ctx context.Context, moderatorID uuid.UUID) ([]domain.Flag, error) {
	return r.list(ctx, listResolvedByModeratorSQL, moderatorID)
}

// Statistics returns the flag counts for a submission grouped by status and
// reason.
func (r *Repo) Statistics(ctx context.Context, submissionID uuid.UUID) (domain.FlagStatistics, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var stats domain.FlagStatistics
	err := querier.QueryRow(ctx, statsSQL, submissionID).Scan(
		&stats.TotalFlags, &stats.OpenFlags, &stats.ResolvedFlags, &stats.DismissedFlags)
	if err != nil {
		return domain.FlagStatistics{}, fmt.Errorf("flag statistics: %w", err)
	}

	rows, err := querier.Query(ctx, reasonCountsSQL, submissionID)
	if err != nil {
		return domain.FlagStatistics{}, fmt.Errorf("flag reason counts: %w", err)
	}
	defer rows.Close()

	stats.ReasonCounts = map[domain.FlagReason]int{}
	for rows.Next() {
		var (
			reason string
			n      int
		)
		if err := rows.Scan(&reason, &n); err != nil {
			return domain.FlagStatistics{}, fmt.Errorf("scan flag reason count: %w", err)
		}
		stats.ReasonCounts[domain.FlagReason(reason)] = n
	}
	if err := rows.Err(); err != nil {
		return domain.FlagStatistics{}, fmt.Errorf("iterate flag reason counts: %w", err)
	}
	return stats, nil
}

// GlobalCounts returns platform-wide flag totals for the analytics
// snapshots.
func (r *Repo) GlobalCounts(ctx context.Context) (total, open int, err error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if err := querier.QueryRow(ctx, globalCountsSQL).Scan(&total, &open); err != nil {
		return 0, 0, fmt.Errorf("global flag counts: %w", err)
	}
	return total, open, nil
}

// CountResolvedOn returns how many flags were resolved on the given UTC
// calendar date.
func (r *Repo) CountResolvedOn(ctx context.Context, date time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int
	if err := querier.QueryRow(ctx, countResolvedOnSQL, dayStart, dayEnd).Scan(&count); err != nil {
		return 0, fmt.Errorf("count resolved flags: %w", err)
	}
	return count, nil
}

func (r *Repo) getOne(ctx context.Context, sql string, id uuid.UUID) (*domain.Flag, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		f      domain.Flag
		reason string
		status string
	)
	err := querier.QueryRow(ctx, sql, id).Scan(
		&f.ID, &f.SubmissionID, &f.FlaggerID, &reason, &f.Details, &status,
		&f.ModeratorID, &f.ModeratorNotes, &f.ResolvedAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "flag", id)
	}
	f.Reason = domain.FlagReason(reason)
	f.Status = domain.FlagStatus(status)
	return &f, nil
}

func (r *Repo) list(ctx context.Context, sql string, arg any) ([]domain.Flag, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	defer rows.Close()

	flags := []domain.Flag{}
	for rows.Next() {
		var (
			f      domain.Flag
			reason string
			status string
		)
		err := rows.Scan(
			&f.ID, &f.SubmissionID, &f.FlaggerID, &reason, &f.Details, &status,
			&f.ModeratorID, &f.ModeratorNotes, &f.ResolvedAt, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		f.Reason = domain.FlagReason(reason)
		f.Status = domain.FlagStatus(status)
		flags = append(flags, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flags: %w", err)
	}
	return flags, nil
}
