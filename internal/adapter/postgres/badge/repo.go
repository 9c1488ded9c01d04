// Package badge implements the badge catalog and award repository using
// PostgreSQL. Awards are idempotent via ON CONFLICT DO NOTHING.
package badge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides badge persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new badge repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, code, name, description, icon_url, category, points_value, is_active, created_at`

const getByCodeSQL = `
SELECT ` + columns + `
FROM badges WHERE code = $1`

const getByIDSQL = `
SELECT ` + columns + `
FROM badges WHERE id = $1`

const listActiveSQL = `
SELECT ` + columns + `
FROM badges WHERE is_active ORDER BY category, points_value`

const awardSQL = `
INSERT INTO user_badges (id, user_id, badge_id, earned_at, context_note)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (user_id, badge_id) DO NOTHING`

const listByUserSQL = `
SELECT ub.id, ub.user_id, ub.badge_id, ub.earned_at, ub.context_note
FROM user_badges ub
WHERE ub.user_id = $1
ORDER BY ub.earned_at DESC`

// GetByCode returns a badge by its unique code.
func (r *Repo) GetByCode(ctx context.Context, code string) (*domain.Badge, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	var b domain.Badge
	err := querier.QueryRow(ctx, getByCodeSQL, code).Scan(
		&b.ID, &b.Code, &b.Name, &b.Description, &b.IconURL, &b.Category,
		&b.PointsValue, &b.IsActive, &b.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "badge", uuid.Nil)
	}
	return &b, nil
}

// GetByID returns a badge by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Badge, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	var b domain.Badge
	err := querier.QueryRow(ctx, getByIDSQL, id).Scan(
		&b.ID, &b.Code, &b.Name, &b.Description, &b.IconURL, &b.Category,
		&b.PointsValue, &b.IsActive, &b.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "badge", id)
	}
	return &b, nil
}

// ListActive returns the active badge catalog.
func (r *Repo) ListActive(ctx context.Context) ([]domain.Badge, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listActiveSQL)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	badges := []domain.Badge{}
	for rows.Next() {
		var b domain.Badge
		err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Description, &b.IconURL,
			&b.Category, &b.PointsValue, &b.IsActive, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate badges: %w", err)
	}
	return badges, nil
}

// Award grants a badge to a user. Returns true if newly awarded, false if
// the user already held it.
func (r *Repo) Award(ctx context.Context, userID, badgeID uuid.UUID, note *string, now time.Time) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, awardSQL, uuid.New(), userID, badgeID, now, note)
	if err != nil {
		return false, postgres.MapError(err, "user_badge", badgeID)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns a user's earned badges, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserBadge, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list user badges: %w", err)
	}
	defer rows.Close()

	earned := []domain.UserBadge{}
	for rows.Next() {
		var ub domain.UserBadge
		if err := rows.Scan(&ub.ID, &ub.UserID, &ub.BadgeID, &ub.EarnedAt, &ub.ContextNote); err != nil {
			return nil, fmt.Errorf("scan user badge: %w", err)
		}
		earned = append(earned, ub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user badges: %w", err)
	}
	return earned, nil
}
