// Package explanation implements the submission lifecycle: intake,
// reading, owner edits, deletion, and the moderation queue.
package explanation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type submissionRepo interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	Update(ctx context.Context, s *domain.Submission) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f domain.SubmissionFilter) ([]*domain.Submission, int, error)
	ModerationQueue(ctx context.Context, limit, offset int) ([]*domain.Submission, error)
}

type contentRepo interface {
	QuestionExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type fileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FileUpload, error)
}

type flagRepo interface {
	CountOpenBySubmission(ctx context.Context, submissionID uuid.UUID) (int, error)
}

type publisher interface {
	Publish(e domain.Event)
}

type searchNotifier interface {
	RemoveSubmission(ctx context.Context, submissionID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// heavyFlagThreshold marks a submission as needing urgent moderator
// attention once this many flags are open at once.
const heavyFlagThreshold = 3

// Service implements the explanation lifecycle business logic.
type Service struct {
	subs    submissionRepo
	content contentRepo
	files   fileRepo
	flags   flagRepo
	events  publisher
	search  searchNotifier
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates a new explanation service.
func NewService(
	log *slog.Logger,
	subs submissionRepo,
	content contentRepo,
	files fileRepo,
	flags flagRepo,
	events publisher,
	search searchNotifier,
) *Service {
	return &Service{
		subs:    subs,
		content: content,
		files:   files,
		flags:   flags,
		events:  events,
		search:  search,
		log:     log,
		now:     time.Now,
	}
}
