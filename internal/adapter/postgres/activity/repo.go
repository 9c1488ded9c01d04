// Package activity implements the append-only contribution activity log
// using PostgreSQL.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides activity log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO contribution_activities (
    id, user_id, activity_type, entity_type, entity_id,
    points_earned, activity_date, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

const listByUserSQL = `
SELECT id, user_id, activity_type, entity_type, entity_id, points_earned, activity_date, created_at
FROM contribution_activities
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

// Windows are calendar-day based: activity_date, not created_at, decides
// which period a row belongs to.
const sumPointsPerUserSinceSQL = `
SELECT user_id, sum(points_earned)
FROM contribution_activities
WHERE activity_date >= $1
GROUP BY user_id
ORDER BY sum(points_earned) DESC`

const countDistinctUsersOnSQL = `
SELECT count(DISTINCT user_id) FROM contribution_activities WHERE activity_date = $1`

const totalPointsSQL = `
SELECT coalesce(sum(points_earned), 0) FROM contribution_activities WHERE user_id = $1`

// Create appends an activity row.
func (r *Repo) Create(ctx context.Context, a *domain.ContributionActivity) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, createSQL,
		a.ID, a.UserID, a.ActivityType.String(), a.EntityType.String(), a.EntityID,
		a.PointsEarned, a.ActivityDate, a.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "activity", a.ID)
	}
	return nil
}

// ListByUser returns a user's recent activity, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ContributionActivity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	if limit <= 0 {
		limit = 50
	}

	rows, err := querier.Query(ctx, listByUserSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	acts := []domain.ContributionActivity{}
	for rows.Next() {
		var (
			a            domain.ContributionActivity
			activityType string
			entityType   string
		)
		err := rows.Scan(&a.ID, &a.UserID, &activityType, &entityType, &a.EntityID,
			&a.PointsEarned, &a.ActivityDate, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.ActivityType = domain.ActivityType(activityType)
		a.EntityType = domain.EntityType(entityType)
		acts = append(acts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return acts, nil
}

// SumPointsPerUserSince returns per-user point sums over activity dated
// at or after since, ordered by points descending. This is the leaderboard
// rebuild's read snapshot.
func (r *Repo) SumPointsPerUserSince(ctx context.Context, since time.Time) ([]domain.UserPoints, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sumPointsPerUserSinceSQL, since)
	if err != nil {
		return nil, fmt.Errorf("sum points per user: %w", err)
	}
	defer rows.Close()

	sums := []domain.UserPoints{}
	for rows.Next() {
		var up domain.UserPoints
		if err := rows.Scan(&up.UserID, &up.Points); err != nil {
			return nil, fmt.Errorf("scan user points: %w", err)
		}
		sums = append(sums, up)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user points: %w", err)
	}
	return sums, nil
}

// CountDistinctUsersOn returns the number of distinct users with activity
// on the given calendar date.
func (r *Repo) CountDistinctUsersOn(ctx context.Context, date time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var count int
	if err := querier.QueryRow(ctx, countDistinctUsersOnSQL, day).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return count, nil
}

// TotalPoints returns a user's all-time point sum.
func (r *Repo) TotalPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := querier.QueryRow(ctx, totalPointsSQL, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("total points: %w", err)
	}
	return total, nil
}
