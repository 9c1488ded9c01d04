package vote

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

var (
	_ submissionRepo = &submissionRepoMock{}
	_ voteRepo       = &voteRepoMock{}
	_ reviewRepo     = &reviewRepoMock{}
	_ flagRepo       = &flagRepoMock{}
	_ txManager      = &txManagerMock{}
	_ publisher      = &publisherMock{}
)

type submissionRepoMock struct {
	GetByIDForUpdateFunc   func(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	UpdateFunc             func(ctx context.Context, s *domain.Submission) error
	TopVotedByQuestionFunc func(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.Submission, error)
}

func (m *submissionRepoMock) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *submissionRepoMock) Update(ctx context.Context, s *domain.Submission) error {
	return m.UpdateFunc(ctx, s)
}

func (m *submissionRepoMock) TopVotedByQuestion(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.Submission, error) {
	if m.TopVotedByQuestionFunc == nil {
		return nil, nil
	}
	return m.TopVotedByQuestionFunc(ctx, questionID, limit)
}

type voteRepoMock struct {
	CreateFunc                 func(ctx context.Context, v *domain.Vote) error
	GetBySubmissionAndUserFunc func(ctx context.Context, submissionID, userID uuid.UUID) (*domain.Vote, error)
	DeleteFunc                 func(ctx context.Context, id uuid.UUID) error
	ListBySubmissionFunc       func(ctx context.Context, submissionID uuid.UUID) ([]domain.Vote, error)
	ListByUserFunc             func(ctx context.Context, userID uuid.UUID) ([]domain.Vote, error)
	StatisticsFunc             func(ctx context.Context, submissionID uuid.UUID) (domain.VoteStatistics, error)
}

func (m *voteRepoMock) Create(ctx context.Context, v *domain.Vote) error {
	return m.CreateFunc(ctx, v)
}

func (m *voteRepoMock) GetBySubmissionAndUser(ctx context.Context, submissionID, userID uuid.UUID) (*domain.Vote, error) {
	return m.GetBySubmissionAndUserFunc(ctx, submissionID, userID)
}

func (m *voteRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func (m *voteRepoMock) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Vote, error) {
	if m.ListBySubmissionFunc == nil {
		return nil, nil
	}
	return m.ListBySubmissionFunc(ctx, submissionID)
}

func (m *voteRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Vote, error) {
	if m.ListByUserFunc == nil {
		return nil, nil
	}
	return m.ListByUserFunc(ctx, userID)
}

func (m *voteRepoMock) Statistics(ctx context.Context, submissionID uuid.UUID) (domain.VoteStatistics, error) {
	return m.StatisticsFunc(ctx, submissionID)
}

type reviewRepoMock struct {
	ListBySubmissionFunc func(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error)
}

func (m *reviewRepoMock) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error) {
	if m.ListBySubmissionFunc == nil {
		return nil, nil
	}
	return m.ListBySubmissionFunc(ctx, submissionID)
}

type flagRepoMock struct {
	CountOpenBySubmissionFunc func(ctx context.Context, submissionID uuid.UUID) (int, error)
}

func (m *flagRepoMock) CountOpenBySubmission(ctx context.Context, submissionID uuid.UUID) (int, error) {
	if m.CountOpenBySubmissionFunc == nil {
		return 0, nil
	}
	return m.CountOpenBySubmissionFunc(ctx, submissionID)
}

// txManagerMock runs the closure in the caller's context, no transaction.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type publisherMock struct {
	events []domain.Event
}

func (m *publisherMock) Publish(e domain.Event) {
	m.events = append(m.events, e)
}
