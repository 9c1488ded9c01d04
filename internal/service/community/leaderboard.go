package community

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Leaderboard returns the current-period ranking for the given board
// type, best rank first.
func (s *Service) Leaderboard(ctx context.Context, t domain.LeaderboardType, limit int) ([]domain.LeaderboardEntry, error) {
	if !t.IsValid() {
		return nil, domain.NewValidationError("leaderboard_type", "unknown leaderboard type")
	}
	if limit <= 0 || limit > maxLeaderboardSize {
		limit = 50
	}
	return s.boards.List(ctx, t, domain.PeriodKey(t, s.now()), limit)
}

// UserRank returns a user's rank on the current-period board, or
// domain.ErrNotFound when the user is not ranked.
func (s *Service) UserRank(ctx context.Context, t domain.LeaderboardType, userID uuid.UUID) (int, error) {
	if !t.IsValid() {
		return 0, domain.NewValidationError("leaderboard_type", "unknown leaderboard type")
	}
	return s.boards.UserRank(ctx, t, domain.PeriodKey(t, s.now()), userID)
}

// Rebuild recomputes the current-period ranking for one board type from
// the activity ledger and stores it. Concurrent rebuilds of the same
// (type, period) collapse into a single run; the result is deterministic
// for a given ledger state, so re-running is harmless.
func (s *Service) Rebuild(ctx context.Context, t domain.LeaderboardType) (int, error) {
	if !t.IsValid() {
		return 0, domain.NewValidationError("leaderboard_type", "unknown leaderboard type")
	}

	now := s.now()
	periodKey := domain.PeriodKey(t, now)

	n, err, _ := s.rebuilds.Do(string(t)+"|"+periodKey, func() (any, error) {
		return s.rebuild(ctx, t, periodKey, domain.PeriodStart(t, now))
	})
	if err != nil {
		return 0, err
	}
	return n.(int), nil
}

// RebuildAll recomputes all three boards, continuing past per-board
// failures and returning the first error encountered.
func (s *Service) RebuildAll(ctx context.Context) error {
	var firstErr error
	for _, t := range []domain.LeaderboardType{
		domain.LeaderboardTypeWeekly,
		domain.LeaderboardTypeMonthly,
		domain.LeaderboardTypeAllTime,
	} {
		if _, err := s.Rebuild(ctx, t); err != nil {
			s.log.Error("leaderboard rebuild failed", "type", t.String(), "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("rebuild %s: %w", t, err)
			}
		}
	}
	return firstErr
}

func (s *Service) rebuild(ctx context.Context, t domain.LeaderboardType, periodKey string, since time.Time) (int, error) {
	sums, err := s.activities.SumPointsPerUserSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("sum activity points: %w", err)
	}
	if len(sums) == 0 {
		return 0, nil
	}
	if len(sums) > maxLeaderboardSize {
		sums = sums[:maxLeaderboardSize]
	}

	now := s.now()
	entries := make([]domain.LeaderboardEntry, 0, len(sums))
	for _, up := range sums {
		profile, err := s.profiles.Ensure(ctx, up.UserID)
		if err != nil {
			return 0, fmt.Errorf("ensure profile: %w", err)
		}
		entries = append(entries, domain.LeaderboardEntry{
			ID:              uuid.New(),
			UserID:          up.UserID,
			LeaderboardType: t,
			PeriodKey:       periodKey,
			TotalPoints:     up.Points,
			Submissions:     profile.TotalSubmissions,
			Approvals:       profile.ApprovedSubmissions,
			HelpfulVotes:    profile.TotalHelpfulVotes,
			SnapshotAt:      now,
		})
	}

	// Points descending, user id as a stable tiebreak.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].UserID.String() < entries[j].UserID.String()
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if err := s.boards.UpsertEntries(ctx, entries); err != nil {
		return 0, fmt.Errorf("upsert leaderboard entries: %w", err)
	}
	if err := s.boards.Prune(ctx, t, periodKey, maxLeaderboardSize); err != nil {
		return 0, fmt.Errorf("prune leaderboard: %w", err)
	}

	s.log.Info("leaderboard rebuilt",
		"type", t.String(), "period", periodKey, "entries", len(entries))
	return len(entries), nil
}
