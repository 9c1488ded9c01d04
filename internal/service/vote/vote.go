package vote

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Vote casts a helpfulness vote on an approved submission. Fails with
// ErrConflict when the submission is not APPROVED and ErrAlreadyExists
// when the user already voted. The voted event is published only after
// the transaction commits.
func (s *Service) Vote(ctx context.Context, input VoteInput) (*domain.Vote, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	v := &domain.Vote{
		ID:           uuid.New(),
		SubmissionID: input.SubmissionID,
		UserID:       input.UserID,
		IsHelpful:    input.IsHelpful,
		Comment:      input.Comment,
		CreatedAt:    now,
	}

	var ownerID uuid.UUID

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sub, err := s.subs.GetByIDForUpdate(txCtx, input.SubmissionID)
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}
		if sub.Status != domain.SubmissionStatusApproved {
			return fmt.Errorf("submission %s is %s, not APPROVED: %w",
				sub.ID, sub.Status, domain.ErrConflict)
		}
		ownerID = sub.SubmitterID

		if err := s.votes.Create(txCtx, v); err != nil {
			return fmt.Errorf("create vote: %w", err)
		}

		if v.IsHelpful {
			sub.HelpfulCount++
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

	s.events.Publish(domain.SubmissionVoted{
		SubmissionID: input.SubmissionID,
		VoterID:      input.UserID,
		OwnerID:      ownerID,
		IsHelpful:    input.IsHelpful,
		At:           now,
	})

	return v, nil
}

// UpdateVote replaces an existing vote. The replacement is delete plus
// insert, not a field edit; a flipped helpful flag adjusts the counter by
// one in the same transaction.
func (s *Service) UpdateVote(ctx context.Context, input VoteInput) (*domain.Vote, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	replacement := &domain.Vote{
		ID:           uuid.New(),
		SubmissionID: input.SubmissionID,
		UserID:       input.UserID,
		IsHelpful:    input.IsHelpful,
		Comment:      input.Comment,
		CreatedAt:    now,
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sub, err := s.subs.GetByIDForUpdate(txCtx, input.SubmissionID)
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}

		existing, err := s.votes.GetBySubmissionAndUser(txCtx, input.SubmissionID, input.UserID)
		if err != nil {
			return fmt.Errorf("get vote: %w", err)
		}

		if err := s.votes.Delete(txCtx, existing.ID); err != nil {
			return fmt.Errorf("delete vote: %w", err)
		}
		if err := s.votes.Create(txCtx, replacement); err != nil {
			return fmt.Errorf("create vote: %w", err)
		}

		switch {
		case input.IsHelpful && !existing.IsHelpful:
			sub.HelpfulCount++
		case !input.IsHelpful && existing.IsHelpful:
			sub.HelpfulCount--
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
	return replacement, nil
}

// RemoveVote deletes the user's vote on a submission, decrementing the
// helpful counter if the removed vote was helpful.
func (s *Service) RemoveVote(ctx context.Context, input RemoveVoteInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	now := s.now()
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sub, err := s.subs.GetByIDForUpdate(txCtx, input.SubmissionID)
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}

		existing, err := s.votes.GetBySubmissionAndUser(txCtx, input.SubmissionID, input.UserID)
		if err != nil {
			return fmt.Errorf("get vote: %w", err)
		}

		if err := s.votes.Delete(txCtx, existing.ID); err != nil {
			return fmt.Errorf("delete vote: %w", err)
		}
		if existing.IsHelpful {
			sub.HelpfulCount--
		}

		if err := s.recomputeScore(txCtx, sub); err != nil {
			return err
		}
		sub.UpdatedAt = now
		return s.subs.Update(txCtx, sub)
	})
}

// Statistics returns the vote counts for a submission.
func (s *Service) Statistics(ctx context.Context, submissionID uuid.UUID) (domain.VoteStatistics, error) {
	return s.votes.Statistics(ctx, submissionID)
}

// UserVote returns a user's vote on a submission, or ErrNotFound.
func (s *Service) UserVote(ctx context.Context, submissionID, userID uuid.UUID) (*domain.Vote, error) {
	return s.votes.GetBySubmissionAndUser(ctx, submissionID, userID)
}

// VotesFor returns all votes cast on a submission.
func (s *Service) VotesFor(ctx context.Context, submissionID uuid.UUID) ([]domain.Vote, error) {
	return s.votes.ListBySubmission(ctx, submissionID)
}

// VotesBy returns all votes a user has cast, newest first.
func (s *Service) VotesBy(ctx context.Context, userID uuid.UUID) ([]domain.Vote, error) {
	return s.votes.ListByUser(ctx, userID)
}

// TopVotedForQuestion returns a question's approved submissions ordered
// by helpful votes.
func (s *Service) TopVotedForQuestion(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.Submission, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.subs.TopVotedByQuestion(ctx, questionID, limit)
}
