// Package leaderboard implements the ranked leaderboard repository using
// PostgreSQL. Rebuilds upsert per-row via a batch, so an interrupted
// rebuild leaves individually-consistent rows and a rerun heals the rest.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides leaderboard persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leaderboard repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const upsertSQL = `
INSERT INTO leaderboard_entries (
    id, user_id, leaderboard_type, period_key, rank,
    total_points, submissions, approvals, helpful_votes, snapshot_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (leaderboard_type, period_key, user_id) DO UPDATE SET
    rank = EXCLUDED.rank,
    total_points = EXCLUDED.total_points,
    submissions = EXCLUDED.submissions,
    approvals = EXCLUDED.approvals,
    helpful_votes = EXCLUDED.helpful_votes,
    snapshot_at = EXCLUDED.snapshot_at`

const pruneSQL = `
DELETE FROM leaderboard_entries
WHERE leaderboard_type = $1 AND period_key = $2 AND rank > $3`

const listSQL = `
SELECT id, user_id, leaderboard_type, period_key, rank,
       total_points, submissions, approvals, helpful_votes, snapshot_at
FROM leaderboard_entries
WHERE leaderboard_type = $1 AND period_key = $2
ORDER BY rank ASC
LIMIT $3`

const userRankSQL = `
SELECT rank FROM leaderboard_entries
WHERE leaderboard_type = $1 AND period_key = $2 AND user_id = $3`

// UpsertEntries writes ranked rows for one (type, period) in a single
// batch round trip.
func (r *Repo) UpsertEntries(ctx context.Context, entries []domain.LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(upsertSQL,
			e.ID, e.UserID, e.LeaderboardType.String(), e.PeriodKey, e.Rank,
			e.TotalPoints, e.Submissions, e.Approvals, e.HelpfulVotes, e.SnapshotAt)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert leaderboard entry: %w", err)
		}
	}
	return nil
}

// Prune removes rows whose rank exceeds keep for a period. A user who fell
// out of the window but still holds a rank within keep is not touched here;
// their row stays until the next rebuild's upsert overwrites that rank.
func (r *Repo) Prune(ctx context.Context, t domain.LeaderboardType, periodKey string, keep int) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, pruneSQL, t.String(), periodKey, keep); err != nil {
		return fmt.Errorf("prune leaderboard: %w", err)
	}
	return nil
}

// List returns the ranked rows of a period, best first.
func (r *Repo) List(ctx context.Context, t domain.LeaderboardType, periodKey string, limit int) ([]domain.LeaderboardEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	if limit <= 0 {
		limit = 100
	}

	rows, err := querier.Query(ctx, listSQL, t.String(), periodKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var (
			e     domain.LeaderboardEntry
			lType string
		)
		err := rows.Scan(&e.ID, &e.UserID, &lType, &e.PeriodKey, &e.Rank,
			&e.TotalPoints, &e.Submissions, &e.Approvals, &e.HelpfulVotes, &e.SnapshotAt)
		if err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.LeaderboardType = domain.LeaderboardType(lType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

// UserRank returns a user's rank in a period. Returns domain.ErrNotFound
// if the user is not on the board.
func (r *Repo) UserRank(ctx context.Context, t domain.LeaderboardType, periodKey string, userID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var rank int
	err := querier.QueryRow(ctx, userRankSQL, t.String(), periodKey, userID).Scan(&rank)
	if err != nil {
		return 0, postgres.MapError(err, "leaderboard_entry", userID)
	}
	return rank, nil
}
