package community

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// RecordActivity appends a point-earning activity, bumps the matching
// profile counter, and evaluates achievements, all in one transaction.
// Returns the profile as it stands after the counter update.
func (s *Service) RecordActivity(
	ctx context.Context,
	userID uuid.UUID,
	activityType domain.ActivityType,
	entityType domain.EntityType,
	entityID uuid.UUID,
	points int,
) (*domain.UserProfile, error) {
	if !activityType.IsValid() {
		return nil, domain.NewValidationError("activity_type", "unknown activity type")
	}
	if !entityType.IsValid() {
		return nil, domain.NewValidationError("entity_type", "unknown entity type")
	}

	now := s.now()
	activity := &domain.ContributionActivity{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: activityType,
		EntityType:   entityType,
		EntityID:     entityID,
		PointsEarned: points,
		ActivityDate: now.UTC().Truncate(24 * time.Hour),
		CreatedAt:    now,
	}

	var profile *domain.UserProfile
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.profiles.Ensure(txCtx, userID); err != nil {
			return fmt.Errorf("ensure profile: %w", err)
		}
		if err := s.activities.Create(txCtx, activity); err != nil {
			return fmt.Errorf("create activity: %w", err)
		}

		if metric, ok := activityMetric(activityType); ok {
			if _, err := s.profiles.IncrementMetric(txCtx, userID, metric, 1); err != nil {
				return fmt.Errorf("increment %s: %w", metric, err)
			}
		}

		p, err := s.profiles.GetByUserID(txCtx, userID)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		profile = p

		return s.evaluateAchievements(txCtx, p)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// RecordApproval credits a submitter for an approved explanation: the
// approved counter, the approval points, and an achievement pass.
func (s *Service) RecordApproval(ctx context.Context, userID, submissionID uuid.UUID) (*domain.UserProfile, error) {
	now := s.now()
	activity := &domain.ContributionActivity{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: domain.ActivityTypeSubmission,
		EntityType:   domain.EntityTypeExplanation,
		EntityID:     submissionID,
		PointsEarned: PointsApproval,
		ActivityDate: now.UTC().Truncate(24 * time.Hour),
		CreatedAt:    now,
	}

	var profile *domain.UserProfile
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.profiles.Ensure(txCtx, userID); err != nil {
			return fmt.Errorf("ensure profile: %w", err)
		}
		if _, err := s.profiles.IncrementMetric(txCtx, userID, domain.MetricApprovedSubmissions, 1); err != nil {
			return fmt.Errorf("increment approved submissions: %w", err)
		}
		if err := s.activities.Create(txCtx, activity); err != nil {
			return fmt.Errorf("create activity: %w", err)
		}

		p, err := s.profiles.GetByUserID(txCtx, userID)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		profile = p

		return s.evaluateAchievements(txCtx, p)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// RecordHelpfulVote credits a submission owner with a received helpful
// vote. No points change hands; only the counter and achievements move.
func (s *Service) RecordHelpfulVote(ctx context.Context, ownerID uuid.UUID) (*domain.UserProfile, error) {
	var profile *domain.UserProfile
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.profiles.Ensure(txCtx, ownerID); err != nil {
			return fmt.Errorf("ensure profile: %w", err)
		}
		if _, err := s.profiles.IncrementMetric(txCtx, ownerID, domain.MetricTotalHelpfulVotes, 1); err != nil {
			return fmt.Errorf("increment helpful votes: %w", err)
		}

		p, err := s.profiles.GetByUserID(txCtx, ownerID)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		profile = p

		return s.evaluateAchievements(txCtx, p)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// TotalPoints returns a user's all-time point sum.
func (s *Service) TotalPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.activities.TotalPoints(ctx, userID)
}

// RecentActivity returns a user's latest activity entries.
func (s *Service) RecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ContributionActivity, error) {
	return s.activities.ListByUser(ctx, userID, limit)
}
