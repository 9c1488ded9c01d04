// Package achievement implements the achievement catalog and per-user
// progress repository using PostgreSQL.
package achievement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides achievement persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new achievement repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const catalogColumns = `id, code, name, description, icon_url, category,
metric_key, target_value, points_value, badge_id, is_active, created_at`

const listActiveSQL = `
SELECT ` + catalogColumns + `
FROM achievements WHERE is_active ORDER BY category, target_value`

const progressColumns = `id, user_id, achievement_id, current_value, completed, completed_at, updated_at`

const getProgressSQL = `
SELECT ` + progressColumns + `
FROM user_achievements WHERE user_id = $1 AND achievement_id = $2`

// Progress upsert never resurrects a completed row: once completed stays
// completed, and current_value never decreases.
const upsertProgressSQL = `
INSERT INTO user_achievements (id, user_id, achievement_id, current_value, completed, completed_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,now())
ON CONFLICT (user_id, achievement_id) DO UPDATE SET
    current_value = GREATEST(user_achievements.current_value, EXCLUDED.current_value),
    completed = user_achievements.completed OR EXCLUDED.completed,
    completed_at = COALESCE(user_achievements.completed_at, EXCLUDED.completed_at),
    updated_at = now()
RETURNING ` + progressColumns

const listProgressByUserSQL = `
SELECT ` + progressColumns + `
FROM user_achievements WHERE user_id = $1 ORDER BY updated_at DESC`

// ListActive returns the active achievement catalog.
func (r *Repo) ListActive(ctx context.Context) ([]domain.Achievement, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listActiveSQL)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	achievements := []domain.Achievement{}
	for rows.Next() {
		var a domain.Achievement
		err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.IconURL, &a.Category,
			&a.MetricKey, &a.TargetValue, &a.PointsValue, &a.BadgeID, &a.IsActive, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}
	return achievements, nil
}

// GetProgress returns a user's progress on one achievement.
// Returns domain.ErrNotFound if no progress record exists yet.
func (r *Repo) GetProgress(ctx context.Context, userID, achievementID uuid.UUID) (*domain.UserAchievement, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var ua domain.UserAchievement
	err := querier.QueryRow(ctx, getProgressSQL, userID, achievementID).Scan(
		&ua.ID, &ua.UserID, &ua.AchievementID, &ua.CurrentValue,
		&ua.Completed, &ua.CompletedAt, &ua.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user_achievement", achievementID)
	}
	return &ua, nil
}

// UpsertProgress writes progress, keeping the stored value monotonic and
// the completion latch one-way, and returns the stored row.
func (r *Repo) UpsertProgress(ctx context.Context, ua *domain.UserAchievement) (*domain.UserAchievement, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var out domain.UserAchievement
	err := querier.QueryRow(ctx, upsertProgressSQL,
		ua.ID, ua.UserID, ua.AchievementID, ua.CurrentValue, ua.Completed, ua.CompletedAt).Scan(
		&out.ID, &out.UserID, &out.AchievementID, &out.CurrentValue,
		&out.Completed, &out.CompletedAt, &out.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user_achievement", ua.AchievementID)
	}
	return &out, nil
}

// ListProgressByUser returns all of a user's achievement progress rows.
func (r *Repo) ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listProgressByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list user achievements: %w", err)
	}
	defer rows.Close()

	progress := []domain.UserAchievement{}
	for rows.Next() {
		var ua domain.UserAchievement
		err := rows.Scan(&ua.ID, &ua.UserID, &ua.AchievementID, &ua.CurrentValue,
			&ua.Completed, &ua.CompletedAt, &ua.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan user achievement: %w", err)
		}
		progress = append(progress, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user achievements: %w", err)
	}
	return progress, nil
}
