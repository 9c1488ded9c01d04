// Package vote implements the vote ledger: one helpfulness vote per
// (submission, user), with the denormalized helpful counter and the
// quality score maintained inside the same transaction as every mutation.
package vote

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type submissionRepo interface {
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	Update(ctx context.Context, s *domain.Submission) error
	TopVotedByQuestion(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.Submission, error)
}

type voteRepo interface {
	Create(ctx context.Context, v *domain.Vote) error
	GetBySubmissionAndUser(ctx context.Context, submissionID, userID uuid.UUID) (*domain.Vote, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Vote, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Vote, error)
	Statistics(ctx context.Context, submissionID uuid.UUID) (domain.VoteStatistics, error)
}

type reviewRepo interface {
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error)
}

type flagRepo interface {
	CountOpenBySubmission(ctx context.Context, submissionID uuid.UUID) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type publisher interface {
	Publish(e domain.Event)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the vote ledger business logic.
type Service struct {
	subs    submissionRepo
	votes   voteRepo
	reviews reviewRepo
	flags   flagRepo
	tx      txManager
	events  publisher
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates a new vote service.
func NewService(
	log *slog.Logger,
	subs submissionRepo,
	votes voteRepo,
	reviews reviewRepo,
	flags flagRepo,
	tx txManager,
	events publisher,
) *Service {
	return &Service{
		subs:    subs,
		votes:   votes,
		reviews: reviews,
		flags:   flags,
		tx:      tx,
		events:  events,
		log:     log,
		now:     time.Now,
	}
}

// recomputeScore refreshes the submission's quality score from the live
// ledgers. Must run inside the mutation's transaction so the score is
// never stale relative to the ledger row that triggered it.
func (s *Service) recomputeScore(ctx context.Context, sub *domain.Submission) error {
	reviews, err := s.reviews.ListBySubmission(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("list reviews: %w", err)
	}
	votes, err := s.votes.ListBySubmission(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("list votes: %w", err)
	}
	openFlags, err := s.flags.CountOpenBySubmission(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("count open flags: %w", err)
	}

	score := domain.ComputeQualityScore(reviews, votes, sub.ViewCount, sub.HelpfulCount, openFlags)
	sub.QualityScore = &score
	return nil
}
