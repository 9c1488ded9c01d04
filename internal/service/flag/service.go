// Package flag implements the content flag ledger: raising flags,
// moderator resolution, and the APPROVED/FLAGGED status flips both drive.
package flag

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

type flagRepo interface {
	Create(ctx context.Context, f *domain.Flag) error
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Flag, error)
	Update(ctx context.Context, f *domain.Flag) error
	HasOpenByFlagger(ctx context.Context, submissionID, flaggerID uuid.UUID) (bool, error)
	CountOpenBySubmission(ctx context.Context, submissionID uuid.UUID) (int, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Flag, error)
	ListByFlagger(ctx context.Context, flaggerID uuid.UUID) ([]domain.Flag, error)
	ListResolvedByModerator(ctx context.Context, moderatorID uuid.UUID) ([]domain.Flag, error)
	ListOpen(ctx context.Context, limit int) ([]domain.Flag, error)
	Statistics(ctx context.Context, submissionID uuid.UUID) (domain.FlagStatistics, error)
}

type voteRepo interface {
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Vote, error)
}

type reviewRepo interface {
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error)
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

// Service implements the flag ledger business logic.
type Service struct {
	subs    submissionRepo
	flags   flagRepo
	votes   voteRepo
	reviews reviewRepo
	tx      txManager
	events  publisher
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates a new flag service.
func NewService(
	log *slog.Logger,
	subs submissionRepo,
	flags flagRepo,
	votes voteRepo,
	reviews reviewRepo,
	tx txManager,
	events publisher,
) *Service {
	return &Service{
		subs:    subs,
		flags:   flags,
		votes:   votes,
		reviews: reviews,
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
