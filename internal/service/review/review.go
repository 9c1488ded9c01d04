package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Review records a moderator's assessment and drives the submission
// lifecycle: an APPROVED verdict approves, REJECTED rejects, and
// NEEDS_REVISION parks the submission in UNDER_REVIEW. Restricted to
// moderator roles; one review per (submission, reviewer).
func (s *Service) Review(ctx context.Context, reviewer domain.User, input ReviewInput) (*domain.Review, error) {
	if !reviewer.Role.CanModerate() {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	rv := &domain.Review{
		ID:                   uuid.New(),
		SubmissionID:         input.SubmissionID,
		ReviewerID:           reviewer.ID,
		Status:               input.Status,
		Comments:             input.Comments,
		QualityRating:        input.QualityRating,
		AccuracyScore:        input.AccuracyScore,
		ClarityScore:         input.ClarityScore,
		TheologicalSoundness: input.TheologicalSoundness,
		ReviewedAt:           now,
		CreatedAt:            now,
	}

	var (
		approved    bool
		submitterID uuid.UUID
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sub, err := s.subs.GetByIDForUpdate(txCtx, input.SubmissionID)
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}

		exists, err := s.reviews.Exists(txCtx, input.SubmissionID, reviewer.ID)
		if err != nil {
			return fmt.Errorf("check review exists: %w", err)
		}
		if exists {
			return fmt.Errorf("review of %s by %s: %w",
				input.SubmissionID, reviewer.ID, domain.ErrAlreadyExists)
		}

		if err := s.reviews.Create(txCtx, rv); err != nil {
			return fmt.Errorf("create review: %w", err)
		}

		switch input.Status {
		case domain.ReviewStatusApproved:
			if sub.CanTransitionTo(domain.SubmissionStatusApproved) {
				sub.Status = domain.SubmissionStatusApproved
				sub.ApprovedAt = &now
				approved = true
			}
		case domain.ReviewStatusRejected:
			if sub.CanTransitionTo(domain.SubmissionStatusRejected) {
				sub.Status = domain.SubmissionStatusRejected
				sub.ReviewedAt = &now
			}
		case domain.ReviewStatusNeedsRevision:
			if sub.Status != domain.SubmissionStatusUnderReview &&
				sub.CanTransitionTo(domain.SubmissionStatusUnderReview) {
				sub.Status = domain.SubmissionStatusUnderReview
				sub.ReviewedAt = &now
			}
		}

		if err := s.recomputeScore(txCtx, sub); err != nil {
			return err
		}
		sub.UpdatedAt = now
		if err := s.subs.Update(txCtx, sub); err != nil {
			return fmt.Errorf("update submission: %w", err)
		}

		submitterID = sub.SubmitterID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.SubmissionReviewed{
		SubmissionID: input.SubmissionID,
		ReviewerID:   reviewer.ID,
		At:           now,
	})
	if approved {
		s.events.Publish(domain.SubmissionApproved{
			SubmissionID: input.SubmissionID,
			SubmitterID:  submitterID,
			At:           now,
		})
	}

	s.log.Info("review recorded",
		"submission_id", input.SubmissionID, "verdict", input.Status.String())

	return rv, nil
}

// Consensus returns the strict-majority verdict over all reviews of a
// submission.
func (s *Service) Consensus(ctx context.Context, submissionID uuid.UUID) (domain.ReviewConsensus, error) {
	reviews, err := s.reviews.ListBySubmission(ctx, submissionID)
	if err != nil {
		return domain.ReviewConsensus{}, fmt.Errorf("list reviews: %w", err)
	}
	return domain.ComputeConsensus(reviews), nil
}

// Scores returns the per-criterion score averages of a submission.
func (s *Service) Scores(ctx context.Context, submissionID uuid.UUID) (domain.ReviewScores, error) {
	return s.reviews.Scores(ctx, submissionID)
}

// NeedsMoreReviews reports whether a submission still has fewer reviews
// than the confidence threshold.
func (s *Service) NeedsMoreReviews(ctx context.Context, submissionID uuid.UUID) (bool, error) {
	scores, err := s.reviews.Scores(ctx, submissionID)
	if err != nil {
		return false, err
	}
	return scores.ReviewCount < minReviewsForConfidence, nil
}

// ListBySubmission returns all reviews of a submission, oldest first.
func (s *Service) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error) {
	return s.reviews.ListBySubmission(ctx, submissionID)
}
