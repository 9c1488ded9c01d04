package community

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// AwardBadge grants a badge by code. Awarding a badge the user already
// holds is a no-op; the boolean reports whether a new badge was granted.
func (s *Service) AwardBadge(ctx context.Context, userID uuid.UUID, code string, note string) (bool, error) {
	badge, err := s.badges.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("badge code not seeded", "code", code)
			return false, nil
		}
		return false, fmt.Errorf("get badge %s: %w", code, err)
	}
	if !badge.IsActive {
		return false, nil
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}
	awarded, err := s.badges.Award(ctx, userID, badge.ID, notePtr, s.now())
	if err != nil {
		return false, fmt.Errorf("award badge %s: %w", code, err)
	}
	if awarded {
		s.log.Info("badge awarded", "user_id", userID, "badge", code)
	}
	return awarded, nil
}

func (s *Service) awardBadgeByID(ctx context.Context, userID, badgeID uuid.UUID, note *string) (bool, error) {
	awarded, err := s.badges.Award(ctx, userID, badgeID, note, s.now())
	if err != nil {
		return false, fmt.Errorf("award badge %s: %w", badgeID, err)
	}
	return awarded, nil
}

// ListBadges returns the active badge catalog.
func (s *Service) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	return s.badges.ListActive(ctx)
}

// UserBadges returns the badges a user has earned, newest first.
func (s *Service) UserBadges(ctx context.Context, userID uuid.UUID) ([]domain.UserBadge, error) {
	return s.badges.ListByUser(ctx, userID)
}
