// Package analytics implements the snapshot store for the nightly
// aggregation job. Every writer is an upsert keyed by snapshot date, so
// re-running a job for a date overwrites instead of duplicating.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides snapshot persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new analytics repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const dailyColumns = `id, snapshot_date,
total_questions, total_booklets, total_acts,
total_submissions, pending_submissions, approved_submissions, rejected_submissions, flagged_submissions,
new_submissions_today, new_approvals_today,
total_users, new_users_today, active_users_today,
total_votes, total_helpful_votes, total_flags, open_flags, total_reviews,
avg_quality_score, avg_helpful_pct, created_at`

const upsertDailySQL = `
INSERT INTO daily_snapshots (
    id, snapshot_date,
    total_questions, total_booklets, total_acts,
    total_submissions, pending_submissions, approved_submissions, rejected_submissions, flagged_submissions,
    new_submissions_today, new_approvals_today,
    total_users, new_users_today, active_users_today,
    total_votes, total_helpful_votes, total_flags, open_flags, total_reviews,
    avg_quality_score, avg_helpful_pct, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
ON CONFLICT (snapshot_date) DO UPDATE SET
    total_questions = EXCLUDED.total_questions,
    total_booklets = EXCLUDED.total_booklets,
    total_acts = EXCLUDED.total_acts,
    total_submissions = EXCLUDED.total_submissions,
    pending_submissions = EXCLUDED.pending_submissions,
    approved_submissions = EXCLUDED.approved_submissions,
    rejected_submissions = EXCLUDED.rejected_submissions,
    flagged_submissions = EXCLUDED.flagged_submissions,
    new_submissions_today = EXCLUDED.new_submissions_today,
    new_approvals_today = EXCLUDED.new_approvals_today,
    total_users = EXCLUDED.total_users,
    new_users_today = EXCLUDED.new_users_today,
    active_users_today = EXCLUDED.active_users_today,
    total_votes = EXCLUDED.total_votes,
    total_helpful_votes = EXCLUDED.total_helpful_votes,
    total_flags = EXCLUDED.total_flags,
    open_flags = EXCLUDED.open_flags,
    total_reviews = EXCLUDED.total_reviews,
    avg_quality_score = EXCLUDED.avg_quality_score,
    avg_helpful_pct = EXCLUDED.avg_helpful_pct`

const latestDailySQL = `
SELECT ` + dailyColumns + `
FROM daily_snapshots ORDER BY snapshot_date DESC LIMIT 1`

const listDailySinceSQL = `
SELECT ` + dailyColumns + `
FROM daily_snapshots WHERE snapshot_date >= $1 ORDER BY snapshot_date ASC`

const growthColumns = `id, snapshot_date, total_users, public_users, catechists,
priests, theology_reviewers, admins, new_registrations`

const upsertGrowthSQL = `
INSERT INTO user_growth_snapshots (
    id, snapshot_date, total_users, public_users, catechists,
    priests, theology_reviewers, admins, new_registrations
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (snapshot_date) DO UPDATE SET
    total_users = EXCLUDED.total_users,
    public_users = EXCLUDED.public_users,
    catechists = EXCLUDED.catechists,
    priests = EXCLUDED.priests,
    theology_reviewers = EXCLUDED.theology_reviewers,
    admins = EXCLUDED.admins,
    new_registrations = EXCLUDED.new_registrations`

const latestGrowthSQL = `
SELECT ` + growthColumns + `
FROM user_growth_snapshots ORDER BY snapshot_date DESC LIMIT 1`

const listGrowthSinceSQL = `
SELECT ` + growthColumns + `
FROM user_growth_snapshots WHERE snapshot_date >= $1 ORDER BY snapshot_date ASC`

const moderationColumns = `id, snapshot_date, avg_review_hours, queue_length,
reviews_completed_today, flags_resolved_today`

const upsertModerationSQL = `
INSERT INTO moderation_snapshots (
    id, snapshot_date, avg_review_hours, queue_length,
    reviews_completed_today, flags_resolved_today
) VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (snapshot_date) DO UPDATE SET
    avg_review_hours = EXCLUDED.avg_review_hours,
    queue_length = EXCLUDED.queue_length,
    reviews_completed_today = EXCLUDED.reviews_completed_today,
    flags_resolved_today = EXCLUDED.flags_resolved_today`

const latestModerationSQL = `
SELECT ` + moderationColumns + `
FROM moderation_snapshots ORDER BY snapshot_date DESC LIMIT 1`

const listModerationSinceSQL = `
SELECT ` + moderationColumns + `
FROM moderation_snapshots WHERE snapshot_date >= $1 ORDER BY snapshot_date ASC`

// UpsertDaily writes the content/engagement snapshot for its date.
func (r *Repo) UpsertDaily(ctx context.Context, s *domain.DailySnapshot) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := querier.Exec(ctx, upsertDailySQL,
		s.ID, s.SnapshotDate,
		s.TotalQuestions, s.TotalBooklets, s.TotalActs,
		s.TotalSubmissions, s.PendingSubmissions, s.ApprovedSubmissions, s.RejectedSubmissions, s.FlaggedSubmissions,
		s.NewSubmissionsToday, s.NewApprovalsToday,
		s.TotalUsers, s.NewUsersToday, s.ActiveUsersToday,
		s.TotalVotes, s.TotalHelpfulVotes, s.TotalFlags, s.OpenFlags, s.TotalReviews,
		s.AvgQualityScore, s.AvgHelpfulPct, s.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "daily_snapshot", s.ID)
	}
	return nil
}

// LatestDaily returns the most recent content/engagement snapshot.
func (r *Repo) LatestDaily(ctx context.Context) (*domain.DailySnapshot, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	return r.scanDaily(querier.QueryRow(ctx, latestDailySQL))
}

// ListDailySince returns content/engagement snapshots from the given date
// onward, oldest first.
func (r *Repo) ListDailySince(ctx context.Context, from time.Time) ([]domain.DailySnapshot, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listDailySinceSQL, from)
	if err != nil {
		return nil, fmt.Errorf("list daily snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []domain.DailySnapshot{}
	for rows.Next() {
		s, err := scanDailyRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily snapshots: %w", err)
	}
	return snaps, nil
}

// UpsertGrowth writes the user growth snapshot for its date.
func (r *Repo) UpsertGrowth(ctx context.Context, s *domain.UserGrowthSnapshot) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := querier.Exec(ctx, upsertGrowthSQL,
		s.ID, s.SnapshotDate, s.TotalUsers, s.PublicUsers, s.Catechists,
		s.Priests, s.TheologyReviewers, s.Admins, s.NewRegistrations)
	if err != nil {
		return postgres.MapError(err, "user_growth_snapshot", s.ID)
	}
	return nil
}

// LatestGrowth returns the most recent user growth snapshot.
func (r *Repo) LatestGrowth(ctx context.Context) (*domain.UserGrowthSnapshot, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.UserGrowthSnapshot
	err := querier.QueryRow(ctx, latestGrowthSQL).Scan(
		&s.ID, &s.SnapshotDate, &s.TotalUsers, &s.PublicUsers, &s.Catechists,
		&s.Priests, &s.TheologyReviewers, &s.Admins, &s.NewRegistrations)
	if err != nil {
		return nil, postgres.MapError(err, "user_growth_snapshot", uuid.Nil)
	}
	return &s, nil
}

// ListGrowthSince returns user growth snapshots from the given date onward,
// oldest first.
func (r *Repo) ListGrowthSince(ctx context.Context, from time.Time) ([]domain.UserGrowthSnapshot, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listGrowthSinceSQL, from)
	if err != nil {
		return nil, fmt.Errorf("list growth snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []domain.UserGrowthSnapshot{}
	for rows.Next() {
		var s domain.UserGrowthSnapshot
		err := rows.Scan(&s.ID, &s.SnapshotDate, &s.TotalUsers, &s.PublicUsers, &s.Catechists,
			&s.Priests, &s.TheologyReviewers, &s.Admins, &s.NewRegistrations)
		if err != nil {
			return nil, fmt.Errorf("scan growth snapshot: %w", err)
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate growth snapshots: %w", err)
	}
	return snaps, nil
}

// UpsertModeration writes the moderation performance snapshot for its date.
func (r *Repo) UpsertModeration(ctx context.Context, s *domain.ModerationSnapshot) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := querier.Exec(ctx, upsertModerationSQL,
		s.ID, s.SnapshotDate, s.AvgReviewHours, s.QueueLength,
		s.ReviewsCompletedToday, s.FlagsResolvedToday)
	if err != nil {
		return postgres.MapError(err, "moderation_snapshot", s.ID)
	}
	return nil
}

// LatestModeration returns the most recent moderation performance snapshot.
func (r *Repo) LatestModeration(ctx context.Context) (*domain.ModerationSnapshot, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.ModerationSnapshot
	err := querier.QueryRow(ctx, latestModerationSQL).Scan(
		&s.ID, &s.SnapshotDate, &s.AvgReviewHours, &s.QueueLength,
		&s.ReviewsCompletedToday, &s.FlagsResolvedToday)
	if err != nil {
		return nil, postgres.MapError(err, "moderation_snapshot", uuid.Nil)
	}
	return &s, nil
}

// ListModerationSince returns moderation snapshots from the given date
// onward, oldest first.
func (r *Repo) ListModerationSince(ctx context.Context, from time.Time) ([]domain.ModerationSnapshot, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listModerationSinceSQL, from)
	if err != nil {
		return nil, fmt.Errorf("list moderation snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []domain.ModerationSnapshot{}
	for rows.Next() {
		var s domain.ModerationSnapshot
		err := rows.Scan(&s.ID, &s.SnapshotDate, &s.AvgReviewHours, &s.QueueLength,
			&s.ReviewsCompletedToday, &s.FlagsResolvedToday)
		if err != nil {
			return nil, fmt.Errorf("scan moderation snapshot: %w", err)
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation snapshots: %w", err)
	}
	return snaps, nil
}

func (r *Repo) scanDaily(row interface{ Scan(...any) error }) (*domain.DailySnapshot, error) {
	s, err := scanDailyRow(row.Scan)
	if err != nil {
		return nil, postgres.MapError(err, "daily_snapshot", uuid.Nil)
	}
	return s, nil
}

func scanDailyRow(scan func(...any) error) (*domain.DailySnapshot, error) {
	var s domain.DailySnapshot
	err := scan(
		&s.ID, &s.SnapshotDate,
		&s.TotalQuestions, &s.TotalBooklets, &s.TotalActs,
		&s.TotalSubmissions, &s.PendingSubmissions, &s.ApprovedSubmissions, &s.RejectedSubmissions, &s.FlaggedSubmissions,
		&s.NewSubmissionsToday, &s.NewApprovalsToday,
		&s.TotalUsers, &s.NewUsersToday, &s.ActiveUsersToday,
		&s.TotalVotes, &s.TotalHelpfulVotes, &s.TotalFlags, &s.OpenFlags, &s.TotalReviews,
		&s.AvgQualityScore, &s.AvgHelpfulPct, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
