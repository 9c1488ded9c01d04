package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// RunDaily builds and stores the three snapshot rows for the given date.
// The three builders are independent: one failing does not stop the
// others, and the combined error is returned at the end. Re-running for
// the same date overwrites that date's rows, so the job is idempotent.
func (s *Service) RunDaily(ctx context.Context, date time.Time) error {
	date = date.UTC().Truncate(24 * time.Hour)

	var errs []error
	if err := s.snapshotContent(ctx, date); err != nil {
		s.log.Error("daily content snapshot failed", "date", date.Format("2006-01-02"), "error", err)
		errs = append(errs, fmt.Errorf("content snapshot: %w", err))
	}
	if err := s.snapshotGrowth(ctx, date); err != nil {
		s.log.Error("user growth snapshot failed", "date", date.Format("2006-01-02"), "error", err)
		errs = append(errs, fmt.Errorf("growth snapshot: %w", err))
	}
	if err := s.snapshotModeration(ctx, date); err != nil {
		s.log.Error("moderation snapshot failed", "date", date.Format("2006-01-02"), "error", err)
		errs = append(errs, fmt.Errorf("moderation snapshot: %w", err))
	}

	if len(errs) == 0 {
		s.log.Info("daily snapshots stored", "date", date.Format("2006-01-02"))
	}
	return errors.Join(errs...)
}

func (s *Service) snapshotContent(ctx context.Context, date time.Time) error {
	questions, booklets, acts, err := s.content.Counts(ctx)
	if err != nil {
		return fmt.Errorf("content counts: %w", err)
	}
	byStatus, err := s.subs.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count by status: %w", err)
	}
	newSubmissions, err := s.subs.CountSubmittedOn(ctx, date)
	if err != nil {
		return fmt.Errorf("count submitted: %w", err)
	}
	newApprovals, err := s.subs.CountApprovedOn(ctx, date)
	if err != nil {
		return fmt.Errorf("count approved: %w", err)
	}
	avgQuality, err := s.subs.AvgQualityScore(ctx)
	if err != nil {
		return fmt.Errorf("avg quality: %w", err)
	}

	totalUsers, err := s.users.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	newUsers, err := s.users.CountCreatedOn(ctx, date)
	if err != nil {
		return fmt.Errorf("count new users: %w", err)
	}
	activeUsers, err := s.activities.CountDistinctUsersOn(ctx, date)
	if err != nil {
		return fmt.Errorf("count active users: %w", err)
	}

	totalVotes, helpfulVotes, err := s.votes.GlobalStatistics(ctx)
	if err != nil {
		return fmt.Errorf("vote statistics: %w", err)
	}
	totalFlags, openFlags, err := s.flags.GlobalCounts(ctx)
	if err != nil {
		return fmt.Errorf("flag counts: %w", err)
	}
	totalReviews, err := s.reviews.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("count reviews: %w", err)
	}

	var helpfulPct *float64
	if totalVotes > 0 {
		pct := float64(helpfulVotes) / float64(totalVotes) * 100
		helpfulPct = &pct
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	snap := &domain.DailySnapshot{
		ID:           uuid.New(),
		SnapshotDate: date,

		TotalQuestions: questions,
		TotalBooklets:  booklets,
		TotalActs:      acts,

		TotalSubmissions:    total,
		PendingSubmissions:  byStatus[domain.SubmissionStatusPending],
		ApprovedSubmissions: byStatus[domain.SubmissionStatusApproved],
		RejectedSubmissions: byStatus[domain.SubmissionStatusRejected],
		FlaggedSubmissions:  byStatus[domain.SubmissionStatusFlagged],
		NewSubmissionsToday: newSubmissions,
		NewApprovalsToday:   newApprovals,

		TotalUsers:       totalUsers,
		NewUsersToday:    newUsers,
		ActiveUsersToday: activeUsers,

		TotalVotes:        totalVotes,
		TotalHelpfulVotes: helpfulVotes,
		TotalFlags:        totalFlags,
		OpenFlags:         openFlags,
		TotalReviews:      totalReviews,

		AvgQualityScore: avgQuality,
		AvgHelpfulPct:   helpfulPct,

		CreatedAt: s.now(),
	}
	return s.snapshots.UpsertDaily(ctx, snap)
}

func (s *Service) snapshotGrowth(ctx context.Context, date time.Time) error {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return fmt.Errorf("count by role: %w", err)
	}
	newUsers, err := s.users.CountCreatedOn(ctx, date)
	if err != nil {
		return fmt.Errorf("count new users: %w", err)
	}

	total := 0
	for _, n := range byRole {
		total += n
	}

	snap := &domain.UserGrowthSnapshot{
		ID:                uuid.New(),
		SnapshotDate:      date,
		TotalUsers:        total,
		PublicUsers:       byRole[domain.UserRolePublic],
		Catechists:        byRole[domain.UserRoleCatechist],
		Priests:           byRole[domain.UserRolePriest],
		TheologyReviewers: byRole[domain.UserRoleTheologyReviewer],
		Admins:            byRole[domain.UserRoleAdmin],
		NewRegistrations:  newUsers,
	}
	return s.snapshots.UpsertGrowth(ctx, snap)
}

func (s *Service) snapshotModeration(ctx context.Context, date time.Time) error {
	avgHours, err := s.subs.AvgReviewHours(ctx)
	if err != nil {
		return fmt.Errorf("avg review hours: %w", err)
	}
	byStatus, err := s.subs.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count by status: %w", err)
	}
	reviewsToday, err := s.reviews.CountCreatedOn(ctx, date)
	if err != nil {
		return fmt.Errorf("count reviews: %w", err)
	}
	flagsToday, err := s.flags.CountResolvedOn(ctx, date)
	if err != nil {
		return fmt.Errorf("count resolved flags: %w", err)
	}

	// FLAGGED submissions are surfaced via the daily snapshot's flagged
	// count; the queue length is the review backlog only.
	queue := byStatus[domain.SubmissionStatusPending] +
		byStatus[domain.SubmissionStatusUnderReview]

	snap := &domain.ModerationSnapshot{
		ID:                    uuid.New(),
		SnapshotDate:          date,
		AvgReviewHours:        avgHours,
		QueueLength:           queue,
		ReviewsCompletedToday: reviewsToday,
		FlagsResolvedToday:    flagsToday,
	}
	return s.snapshots.UpsertModeration(ctx, snap)
}
