// Package profile implements the gamification profile repository using
// PostgreSQL. Counter updates go through atomic column increments, never
// read-modify-write in Go, so concurrent event handlers cannot lose updates.
package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides profile persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new profile repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, user_id, bio, avatar_url, location, website_url, display_name, is_public,
total_submissions, approved_submissions, total_votes_cast, total_helpful_votes,
total_reviews_completed, total_flags_resolved, created_at, updated_at`

const getByUserIDSQL = `
SELECT ` + columns + `
FROM user_profiles WHERE user_id = $1`

// ensureSQL creates an empty profile on first touch. The no-op update in
// the conflict arm lets RETURNING yield the existing row.
const ensureSQL = `
INSERT INTO user_profiles (id, user_id, is_public, created_at, updated_at)
VALUES ($1, $2, TRUE, now(), now())
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING ` + columns

const updateInfoSQL = `
UPDATE user_profiles SET
    bio = $2, avatar_url = $3, location = $4, website_url = $5,
    display_name = $6, is_public = $7, updated_at = now()
WHERE user_id = $1
RETURNING ` + columns

// metricColumns maps achievement metric keys to counter columns. Only keys
// present here are incrementable; the column name is never caller-supplied.
var metricColumns = map[string]string{
	domain.MetricTotalSubmissions:    "total_submissions",
	domain.MetricApprovedSubmissions: "approved_submissions",
	domain.MetricTotalVotesCast:      "total_votes_cast",
	domain.MetricTotalHelpfulVotes:   "total_helpful_votes",
	domain.MetricReviewsCompleted:    "total_reviews_completed",
	domain.MetricFlagsResolved:       "total_flags_resolved",
}

// GetByUserID returns a user's profile. Returns domain.ErrNotFound if the
// user has no profile yet.
func (r *Repo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	return r.scan(querier.QueryRow(ctx, getByUserIDSQL, userID), userID)
}

// Ensure returns the user's profile, creating an empty one if absent.
func (r *Repo) Ensure(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	return r.scan(querier.QueryRow(ctx, ensureSQL, uuid.New(), userID), userID)
}

// UpdateInfo persists the user-editable profile fields and returns the
// updated profile.
func (r *Repo) UpdateInfo(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	row := querier.QueryRow(ctx, updateInfoSQL,
		p.UserID, p.Bio, p.AvatarURL, p.Location, p.WebsiteURL, p.DisplayName, p.IsPublic)
	return r.scan(row, p.UserID)
}

// IncrementMetric atomically adds delta to the counter behind the metric
// key and returns the new value. The profile must already exist.
func (r *Repo) IncrementMetric(ctx context.Context, userID uuid.UUID, metricKey string, delta int) (int, error) {
	col, ok := metricColumns[metricKey]
	if !ok {
		return 0, fmt.Errorf("profile metric %q: %w", metricKey, domain.ErrValidation)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql := fmt.Sprintf(
		`UPDATE user_profiles SET %s = %s + $2, updated_at = now() WHERE user_id = $1 RETURNING %s`,
		col, col, col)

	var value int
	if err := querier.QueryRow(ctx, sql, userID, delta).Scan(&value); err != nil {
		return 0, postgres.MapError(err, "profile", userID)
	}
	return value, nil
}

func (r *Repo) scan(row interface{ Scan(...any) error }, userID uuid.UUID) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.Bio, &p.AvatarURL, &p.Location, &p.WebsiteURL,
		&p.DisplayName, &p.IsPublic,
		&p.TotalSubmissions, &p.ApprovedSubmissions, &p.TotalVotesCast, &p.TotalHelpfulVotes,
		&p.TotalReviewsCompleted, &p.TotalFlagsResolved,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "profile", userID)
	}
	return &p, nil
}
