package explanation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Get returns a submission by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return s.subs.GetByID(ctx, id)
}

// RecordView bumps the view counter. Best-effort from the caller's
// perspective; a missing submission still reports ErrNotFound.
func (s *Service) RecordView(ctx context.Context, id uuid.UUID) error {
	return s.subs.IncrementViewCount(ctx, id)
}

// List returns submissions matching the filter and the total match count.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Submission, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}
	return s.subs.List(ctx, input.filter())
}

// ModerationQueue returns the submissions awaiting moderator attention:
// FLAGGED first, then UNDER_REVIEW, then PENDING, oldest first per bucket.
// Restricted to moderator roles.
func (s *Service) ModerationQueue(ctx context.Context, actor domain.User, limit, offset int) ([]*domain.Submission, error) {
	if !actor.Role.CanModerate() {
		return nil, domain.ErrForbidden
	}
	return s.subs.ModerationQueue(ctx, limit, offset)
}

// IsHeavilyFlagged reports whether a submission has accumulated enough
// open flags to need urgent attention.
func (s *Service) IsHeavilyFlagged(ctx context.Context, id uuid.UUID) (bool, error) {
	open, err := s.flags.CountOpenBySubmission(ctx, id)
	if err != nil {
		return false, fmt.Errorf("count open flags: %w", err)
	}
	return open >= heavyFlagThreshold, nil
}
