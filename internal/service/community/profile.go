package community

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Profile returns a user's community profile, creating an empty one on
// first access.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	profile, err := s.profiles.Ensure(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile updates the free-form profile fields. Counters are never
// writable through this path.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.UserProfile, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.profiles.Ensure(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = input.AvatarURL
	}
	if input.Location != nil {
		profile.Location = input.Location
	}
	if input.WebsiteURL != nil {
		profile.WebsiteURL = input.WebsiteURL
	}
	if input.DisplayName != nil {
		profile.DisplayName = input.DisplayName
	}
	if input.IsPublic != nil {
		profile.IsPublic = *input.IsPublic
	}
	profile.UpdatedAt = s.now()

	updated, err := s.profiles.UpdateInfo(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info("profile updated", "user_id", userID)
	return updated, nil
}
