package flag

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

var (
	_ submissionRepo = &submissionRepoMock{}
	_ flagRepo       = &flagRepoMock{}
	_ voteRepo       = &voteRepoMock{}
	_ reviewRepo     = &reviewRepoMock{}
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

type flagRepoMock struct {
	CreateFunc                  func(ctx context.Context, f *domain.Flag) error
	GetByIDForUpdateFunc        func(ctx context.Context, id uuid.UUID) (*domain.Flag, error)
	UpdateFunc                  func(ctx context.Context, f *domain.Flag) error
	HasOpenByFlaggerFunc        func(ctx context.Context, submissionID, flaggerID uuid.UUID) (bool, error)
	CountOpenBySubmissionFunc   func(ctx context.Context, submissionID uuid.UUID) (int, error)
	ListBySubmissionFunc        func(ctx context.Context, submissionID uuid.UUID) ([]domain.Flag, error)
	ListByFlaggerFunc           func(ctx context.Context, flaggerID uuid.UUID) ([]domain.Flag, error)
	ListResolvedByModeratorFunc func(ctx context.Context, moderatorID uuid.UUID) ([]domain.Flag, error)
	ListOpenFunc                func(ctx context.Context, limit int) ([]domain.Flag, error)
	StatisticsFunc              func(ctx context.Context, submissionID uuid.UUID) (domain.FlagStatistics, error)
}

func (m *flagRepoMock) Create(ctx context.Context, f *domain.Flag) error {
	return m.CreateFunc(ctx, f)
}

func (m *flagRepoMock) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Flag, error) {
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *flagRepoMock) Update(ctx context.Context, f *domain.Flag) error {
	return m.UpdateFunc(ctx, f)
}

func (m *flagRepoMock) HasOpenByFlagger(ctx context.Context, submissionID, flaggerID uuid.UUID) (bool, error) {
	if m.HasOpenByFlaggerFunc == nil {
		return false, nil
	}
	return m.HasOpenByFlaggerFunc(ctx, submissionID, flaggerID)
}

func (m *flagRepoMock) CountOpenBySubmission(ctx context.Context, submissionID uuid.UUID) (int, error) {
	if m.CountOpenBySubmissionFunc == nil {
		return 0, nil
	}
	return m.CountOpenBySubmissionFunc(ctx, submissionID)
}

func (m *flagRepoMock) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Flag, error) {
	return m.ListBySubmissionFunc(ctx, submissionID)
}

func (m *flagRepoMock) ListByFlagger(ctx context.Context, flaggerID uuid.UUID) ([]domain.Flag, error) {
	if m.ListByFlaggerFunc == nil {
		return nil, nil
	}
	return m.ListByFlaggerFunc(ctx, flaggerID)
}

func (m *flagRepoMock) ListResolvedByModerator(ctx context.Context, moderatorID uuid.UUID) ([]domain.Flag, error) {
	if m.ListResolvedByModeratorFunc == nil {
		return nil, nil
	}
	return m.ListResolvedByModeratorFunc(ctx, moderatorID)
}

func (m *flagRepoMock) ListOpen(ctx context.Context, limit int) ([]domain.Flag, error) {
	return m.ListOpenFunc(ctx, limit)
}

func (m *flagRepoMock) Statistics(ctx context.Context, submissionID uuid.UUID) (domain.FlagStatistics, error) {
	return m.StatisticsFunc(ctx, submissionID)
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

type reviewRepoMock struct {
	ListBySubmissionFunc func(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error)
}

func (m *reviewRepoMock) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error) {
	if m.ListBySubmissionFunc == nil {
		return nil, nil
	}
	return m.ListBySubmissionFunc(ctx, submissionID)
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
