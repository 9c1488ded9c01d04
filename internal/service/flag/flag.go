package flag

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Flag raises a content concern on a submission. A flagger with an open
// flag on the same submission gets ErrAlreadyExists; re-flagging after a
// previous flag was resolved is allowed. An APPROVED submission moves to
// FLAGGED immediately.
func (s *Service) Flag(ctx context.Context, input FlagInput) (*domain.Flag, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	f := &domain.Flag{
		ID:           uuid.New(),
		SubmissionID: input.SubmissionID,
		FlaggerID:    input.FlaggerID,
		Reason:       input.Reason,
		Details:      input.Details,
		Status:       domain.FlagStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sub, err := s.subs.GetByIDForUpdate(txCtx, input.SubmissionID)
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}

		open, err := s.flags.HasOpenByFlagger(txCtx, input.SubmissionID, input.FlaggerID)
		if err != nil {
			return fmt.Errorf("check open flag: %w", err)
		}
		if open {
			return fmt.Errorf("flag on submission %s by %s: %w",
				input.SubmissionID, input.FlaggerID, domain.ErrAlreadyExists)
		}

		if err := s.flags.Create(txCtx, f); err != nil {
			return fmt.Errorf("create flag: %w", err)
		}

		if sub.Status == domain.SubmissionStatusApproved {
			sub.Status = domain.SubmissionStatusFlagged
		}
		if err := s.recomputeScore(txCtx, sub); err != nil {
			return err
		}
		sub.UpdatedAt = now
		if err := s.subs.Update(txCtx, sub); err != nil {
			return fmt.Errorf("update submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("submission flagged",
		"submission_id", input.SubmissionID, "reason", input.Reason.String())

	return f, nil
}

// Resolve closes a flag with RESOLVED or DISMISSED. Restricted to
// moderator roles. When the last open flag on a FLAGGED submission
// closes, the submission returns to APPROVED. The resolved event is
// published only after the transaction commits.
func (s *Service) Resolve(ctx context.Context, moderator domain.User, input ResolveInput) (*domain.Flag, error) {
	if !moderator.Role.CanModerate() {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var (
		resolved     *domain.Flag
		submissionID uuid.UUID
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		f, err := s.flags.GetByIDForUpdate(txCtx, input.FlagID)
		if err != nil {
			return fmt.Errorf("get flag: %w", err)
		}

		if err := f.Resolve(moderator.ID, input.Notes, input.Resolution, now); err != nil {
			return err
		}
		if err := s.flags.Update(txCtx, f); err != nil {
			return fmt.Errorf("update flag: %w", err)
		}

		sub, err := s.subs.GetByIDForUpdate(txCtx, f.SubmissionID)
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}

		openLeft, err := s.flags.CountOpenBySubmission(txCtx, f.SubmissionID)
		if err != nil {
			return fmt.Errorf("count open flags: %w", err)
		}
		if openLeft == 0 && sub.Status == domain.SubmissionStatusFlagged {
			sub.Status = domain.SubmissionStatusApproved
			sub.ApprovedAt = &now
		}

		if err := s.recomputeScore(txCtx, sub); err != nil {
			return err
		}
		sub.UpdatedAt = now
		if err := s.subs.Update(txCtx, sub); err != nil {
			return fmt.Errorf("update submission: %w", err)
		}

		resolved = f
		submissionID = f.SubmissionID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.FlagResolved{
		FlagID:       resolved.ID,
		SubmissionID: submissionID,
		ModeratorID:  moderator.ID,
		Resolution:   input.Resolution,
		At:           now,
	})

	return resolved, nil
}

// ListBySubmission returns all flags on a submission.
func (s *Service) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Flag, error) {
	return s.flags.ListBySubmission(ctx, submissionID)
}

// ListOpen returns the oldest open flags platform-wide. Restricted to
// moderator roles.
func (s *Service) ListOpen(ctx context.Context, actor domain.User, limit int) ([]domain.Flag, error) {
	if !actor.Role.CanModerate() {
		return nil, domain.ErrForbidden
	}
	return s.flags.ListOpen(ctx, limit)
}

// FlagsBy returns every flag a user has raised, newest first. Users may
// read their own history; moderators may read anyone's.
func (s *Service) FlagsBy(ctx context.Context, actor domain.User, flaggerID uuid.UUID) ([]domain.Flag, error) {
	if actor.ID != flaggerID && !actor.Role.CanModerate() {
		return nil, domain.ErrForbidden
	}
	return s.flags.ListByFlagger(ctx, flaggerID)
}

// ResolvedByModerator returns the flags a moderator has closed.
// Restricted to moderator roles.
func (s *Service) ResolvedByModerator(ctx context.Context, actor domain.User, moderatorID uuid.UUID) ([]domain.Flag, error) {
	if !actor.Role.CanModerate() {
		return nil, domain.ErrForbidden
	}
	return s.flags.ListResolvedByModerator(ctx, moderatorID)
}

// Statistics returns the flag counts for a submission.
func (s *Service) Statistics(ctx context.Context, submissionID uuid.UUID) (domain.FlagStatistics, error) {
	return s.flags.Statistics(ctx, submissionID)
}
