package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Dashboard composes the latest row of each snapshot type into one
// summary. A missing snapshot type leaves its block zeroed rather than
// failing the whole call; returns domain.ErrNotFound only when no daily
// snapshot exists at all.
func (s *Service) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	daily, err := s.snapshots.LatestDaily(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest daily snapshot: %w", err)
	}

	out := &domain.DashboardSummary{
		SnapshotDate: daily.SnapshotDate,

		TotalQuestions:      daily.TotalQuestions,
		TotalBooklets:       daily.TotalBooklets,
		TotalUsers:          daily.TotalUsers,
		TotalSubmissions:    daily.TotalSubmissions,
		ApprovedSubmissions: daily.ApprovedSubmissions,
		PendingSubmissions:  daily.PendingSubmissions,
		OpenFlags:           daily.OpenFlags,
		AvgQualityScore:     daily.AvgQualityScore,
		AvgHelpfulPct:       daily.AvgHelpfulPct,

		NewSubmissionsToday: daily.NewSubmissionsToday,
		NewUsersToday:       daily.NewUsersToday,
		NewApprovalsToday:   daily.NewApprovalsToday,
		ActiveUsersToday:    daily.ActiveUsersToday,
	}

	moderation, err := s.snapshots.LatestModeration(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// Tolerated: dashboard renders without the moderation block.
	case err != nil:
		return nil, fmt.Errorf("latest moderation snapshot: %w", err)
	default:
		out.ModerationQueueLength = moderation.QueueLength
		out.AvgReviewHours = moderation.AvgReviewHours
		out.ReviewsCompletedToday = moderation.ReviewsCompletedToday
	}

	growth, err := s.snapshots.LatestGrowth(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("latest growth snapshot: %w", err)
	default:
		out.RoleBreakdown = &domain.RoleBreakdown{
			PublicUsers:       growth.PublicUsers,
			Catechists:        growth.Catechists,
			Priests:           growth.Priests,
			TheologyReviewers: growth.TheologyReviewers,
			Admins:            growth.Admins,
		}
	}

	return out, nil
}

// Trends returns the stored daily snapshots of the last days days,
// oldest first, for time-series charts.
func (s *Service) Trends(ctx context.Context, days int) ([]domain.DailySnapshot, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	from := s.now().UTC().AddDate(0, 0, -days)
	return s.snapshots.ListDailySince(ctx, from)
}

// GrowthTrends returns the stored user growth snapshots of the last
// days days, oldest first.
func (s *Service) GrowthTrends(ctx context.Context, days int) ([]domain.UserGrowthSnapshot, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	from := s.now().UTC().AddDate(0, 0, -days)
	return s.snapshots.ListGrowthSince(ctx, from)
}

// ModerationTrends returns the stored moderation snapshots of the last
// days days, oldest first.
func (s *Service) ModerationTrends(ctx context.Context, days int) ([]domain.ModerationSnapshot, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	from := s.now().UTC().AddDate(0, 0, -days)
	return s.snapshots.ListModerationSince(ctx, from)
}

// TopExplanations returns the quality-ranked approved submissions,
// labeled with the question text they answer.
func (s *Service) TopExplanations(ctx context.Context, limit int) ([]domain.TopContentEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	subs, err := s.subs.TopByQuality(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top by quality: %w", err)
	}

	entries := make([]domain.TopContentEntry, 0, len(subs))
	for i, sub := range subs {
		label, err := s.content.QuestionLabel(ctx, sub.QuestionID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("question label: %w", err)
		}

		var score float64
		if sub.QualityScore != nil {
			score = float64(*sub.QualityScore)
		}
		entries = append(entries, domain.TopContentEntry{
			Rank:        i + 1,
			EntityID:    sub.ID,
			EntityType:  domain.EntityTypeExplanation,
			Label:       label,
			MetricKey:   "quality_score",
			MetricValue: score,
		})
	}
	return entries, nil
}

// ContentBreakdown groups current submissions by status, content type,
// and language. Entries are sorted by count descending, label ascending,
// so repeated calls over the same data produce identical output.
func (s *Service) ContentBreakdown(ctx context.Context) (*domain.ContentBreakdown, error) {
	byStatus, err := s.subs.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byType, err := s.subs.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	byLanguage, err := s.subs.CountByLanguage(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by language: %w", err)
	}

	out := &domain.ContentBreakdown{
		ByLanguage: sortedEntries(byLanguage, func(k string) string { return k }),
		ByStatus: sortedEntries(byStatus, func(k domain.SubmissionStatus) string {
			return string(k)
		}),
		ByType: sortedEntries(byType, func(k domain.ContentType) string {
			return string(k)
		}),
	}
	return out, nil
}

func sortedEntries[K comparable](counts map[K]int, label func(K) string) []domain.BreakdownEntry {
	entries := make([]domain.BreakdownEntry, 0, len(counts))
	for k, n := range counts {
		entries = append(entries, domain.BreakdownEntry{Label: label(k), Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}
