package community

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// evaluateAchievements walks every active achievement and syncs the
// user's progress against the profile counter it tracks. Progress is
// monotonic and completion is a one-way latch, so re-running after a
// redelivered event is harmless. Completing an achievement awards its
// linked badge.
func (s *Service) evaluateAchievements(ctx context.Context, p *domain.UserProfile) error {
	achievements, err := s.achievements.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list achievements: %w", err)
	}

	now := s.now()
	for i := range achievements {
		a := &achievements[i]

		value, ok := p.MetricValue(a.MetricKey)
		if !ok {
			continue
		}

		progress, err := s.achievements.GetProgress(ctx, p.UserID, a.ID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			progress = &domain.UserAchievement{
				ID:            uuid.New(),
				UserID:        p.UserID,
				AchievementID: a.ID,
				CreatedAt:     now,
			}
		case err != nil:
			return fmt.Errorf("get achievement progress: %w", err)
		}

		if progress.Completed {
			continue
		}

		wasCompleted := progress.Completed
		progress.CurrentValue = value
		if value >= a.TargetValue {
			progress.Completed = true
			progress.CompletedAt = &now
		}
		progress.UpdatedAt = now

		updated, err := s.achievements.UpsertProgress(ctx, progress)
		if err != nil {
			return fmt.Errorf("upsert achievement progress: %w", err)
		}

		if updated.Completed && !wasCompleted && a.BadgeID != nil {
			note := fmt.Sprintf("Earned via %s", a.Name)
			awarded, err := s.awardBadgeByID(ctx, p.UserID, *a.BadgeID, &note)
			if err != nil {
				return err
			}
			if awarded {
				s.log.Info("achievement completed",
					"user_id", p.UserID, "achievement", a.Name)
			}
		}
	}

	return nil
}

// UserAchievements returns a user's progress across all achievements,
// including zero-progress rows for achievements not yet started.
func (s *Service) UserAchievements(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error) {
	achievements, err := s.achievements.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	progress, err := s.achievements.ListProgressByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievement progress: %w", err)
	}

	byAchievement := make(map[uuid.UUID]domain.UserAchievement, len(progress))
	for _, ua := range progress {
		byAchievement[ua.AchievementID] = ua
	}

	out := make([]domain.UserAchievement, 0, len(achievements))
	for i := range achievements {
		a := achievements[i]
		if ua, ok := byAchievement[a.ID]; ok {
			ua.Achievement = &a
			out = append(out, ua)
			continue
		}
		out = append(out, domain.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			Achievement:   &a,
		})
	}
	return out, nil
}

// ListAchievements returns all active achievement definitions.
func (s *Service) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	return s.achievements.ListActive(ctx)
}
