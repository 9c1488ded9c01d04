// Package review implements the moderator review ledger: structured
// assessments, the lifecycle transitions they drive, and consensus.
package review

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
}

type reviewRepo interface {
	Create(ctx context.Context, rv *domain.Review) error
	Exists(ctx context.Context, submissionID, reviewerID uuid.UUID) (bool, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error)
	Scores(ctx context.Context, submissionID uuid.UUID) (domain.ReviewScores, error)
}

type voteRepo interface {
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Vote, error)
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

// minReviewsForConfidence is the review count below which a submission's
// aggregate scores are considered preliminary.
const minReviewsForConfidence = 3

// Service implements the review ledger business logic.
type Service struct {
	subs    submissionRepo
	reviews reviewRepo
	votes   voteRepo
	flags   flagRepo
	tx      txManager
	events  publisher
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates a new review service.
func NewService(
	log *slog.Logger,
	subs submissionRepo,
	reviews reviewRepo,
	votes voteRepo,
	flags flagRepo,
	tx txManager,
	events publisher,
) *Service {
	return &Service{
		subs:    subs,
		reviews: reviews,
		votes:   votes,
		flags:   flags,
		tx:      tx,
		events:  events,
		log:     log,
		now:     time.Now,
	}
}

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
