package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

var (
	_ submissionRepo = &submissionRepoMock{}
	_ reviewRepo     = &reviewRepoMock{}
	_ voteRepo       = &voteRepoMock{}
	_ flagRepo       = &flagRepoMock{}
	_ txManager      = &txManagerMock{}
	_ publisher      = &publisherMock{}
)

type submissionRepoMock struct {
	GetByIDForUpdateFunc func(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	UpdateFunc           func(ctx context.Context, s *domain.Submission) error
}

func (m *submissionRepoMock) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *submissionRepoMock) Update(ctx context.Context, s *domain.Submission) error {
	return m.UpdateFunc(ctx, s)
}

type reviewRepoMock struct {
	CreateFunc           func(ctx context.Context, rv *domain.Review) error
	ExistsFunc           func(ctx context.Context, submissionID, reviewerID uuid.UUID) (bool, error)
	ListBySubmissionFunc func(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error)
	ScoresFunc           func(ctx context.Context, submissionID uuid.UUID) (domain.ReviewScores, error)
}

func (m *reviewRepoMock) Create(ctx context.Context, rv *domain.Review) error {
	return m.CreateFunc(ctx, rv)
}

func (m *reviewRepoMock) Exists(ctx context.Context, submissionID, reviewerID uuid.UUID) (bool, error) {
	if m.ExistsFunc == nil {
		return false, nil
	}
	return m.ExistsFunc(ctx, submissionID, reviewerID)
}

func (m *reviewRepoMock) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error) {
	if m.ListBySubmissionFunc == nil {
		return nil, nil
	}
	return m.ListBySubmissionFunc(ctx, submissionID)
}

func (m *reviewRepoMock) Scores(ctx context.Context, submissionID uuid.UUID) (domain.ReviewScores, error) {
	return m.ScoresFunc(ctx, submissionID)
}

type voteRepoMock struct {
	ListBySubmissionFunc func(ctx context.Context, submissionID uuid.UUID) ([]domain.Vote, error)
}

func (m *voteRepoMock) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Vote, error) {
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
