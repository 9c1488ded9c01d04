// Package user implements the read-side user repository. Accounts are
// owned by the auth collaborator; this side only reads identity and role.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides user reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `
SELECT id, email, name, role, created_at FROM users WHERE id = $1`

const countAllSQL = `SELECT count(*) FROM users`

const countByRoleSQL = `SELECT role, count(*) FROM users GROUP BY role`

const countCreatedOnSQL = `
SELECT count(*) FROM users WHERE created_at >= $1 AND created_at < $2`

// GetByID returns a user by ID. Returns domain.ErrNotFound if missing.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		u    domain.User
		role string
	)
	err := querier.QueryRow(ctx, getByIDSQL, id).Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}

// CountAll returns the total user count.
func (r *Repo) CountAll(ctx context.Context) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countAllSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// CountByRole returns user counts grouped by role.
func (r *Repo) CountByRole(ctx context.Context) (map[domain.UserRole]int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, countByRoleSQL)
	if err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	defer rows.Close()

	counts := map[domain.UserRole]int{}
	for rows.Next() {
		var (
			role string
			n    int
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		counts[domain.UserRole(role)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role counts: %w", err)
	}
	return counts, nil
}

// CountCreatedOn returns how many users registered on the given UTC
// calendar date.
func (r *Repo) CountCreatedOn(ctx context.Context, date time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int
	if err := querier.QueryRow(ctx, countCreatedOnSQL, dayStart, dayEnd).Scan(&count); err != nil {
		return 0, fmt.Errorf("count new users: %w", err)
	}
	return count, nil
}
