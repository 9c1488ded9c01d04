package explanation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// UpdateText lets the owner revise a TEXT submission before it is
// approved. An edit to an UNDER_REVIEW submission sends it back to
// PENDING so reviewers see the revised text from the start of the queue.
func (s *Service) UpdateText(ctx context.Context, input UpdateTextInput) (*domain.Submission, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.subs.GetByID(ctx, input.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	if sub.SubmitterID != input.ActorID {
		return nil, domain.ErrForbidden
	}
	if sub.ContentType != domain.ContentTypeText {
		return nil, domain.NewValidationError("content_type", "only TEXT submissions can be edited")
	}
	switch sub.Status {
	case domain.SubmissionStatusPending, domain.SubmissionStatusUnderReview:
		// editable
	default:
		return nil, fmt.Errorf("submission %s is %s: %w", sub.ID, sub.Status, domain.ErrConflict)
	}

	now := s.now()
	sub.TextContent = &input.TextContent
	sub.Status = domain.SubmissionStatusPending
	sub.UpdatedAt = now

	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}
	return sub, nil
}

// Delete removes a submission. Owners may delete their own; moderators may
// delete any.
func (s *Service) Delete(ctx context.Context, actor domain.User, id uuid.UUID) error {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get submission: %w", err)
	}

	if sub.SubmitterID != actor.ID && !actor.Role.CanModerate() {
		return domain.ErrForbidden
	}

	if err := s.subs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}

	// Deindexing is best-effort; the row is already gone.
	if err := s.search.RemoveSubmission(ctx, id); err != nil {
		s.log.Warn("search deindex failed", "submission_id", id, "error", err)
	}

	s.log.Info("submission deleted", "submission_id", id, "actor_id", actor.ID)
	return nil
}
