package explanation

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

var (
	_ submissionRepo = &submissionRepoMock{}
	_ contentRepo    = &contentRepoMock{}
	_ fileRepo       = &fileRepoMock{}
	_ flagRepo       = &flagRepoMock{}
	_ publisher      = &publisherMock{}
	_ searchNotifier = &searchNotifierMock{}
)

// searchNotifierMock records deindex calls; nil func is a no-op so most
// tests can ignore it.
type searchNotifierMock struct {
	RemoveSubmissionFunc func(ctx context.Context, submissionID uuid.UUID) error
	removed              []uuid.UUID
}

func (m *searchNotifierMock) RemoveSubmission(ctx context.Context, submissionID uuid.UUID) error {
	m.removed = append(m.removed, submissionID)
	if m.RemoveSubmissionFunc == nil {
		return nil
	}
	return m.RemoveSubmissionFunc(ctx, submissionID)
}

type submissionRepoMock struct {
	CreateFunc             func(ctx context.Context, s *domain.Submission) error
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	UpdateFunc             func(ctx context.Context, s *domain.Submission) error
	DeleteFunc             func(ctx context.Context, id uuid.UUID) error
	IncrementViewCountFunc func(ctx context.Context, id uuid.UUID) error
	ListFunc               func(ctx context.Context, f domain.SubmissionFilter) ([]*domain.Submission, int, error)
	ModerationQueueFunc    func(ctx context.Context, limit, offset int) ([]*domain.Submission, error)
}

func (m *submissionRepoMock) Create(ctx context.Context, s *domain.Submission) error {
	return m.CreateFunc(ctx, s)
}

func (m *submissionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *submissionRepoMock) Update(ctx context.Context, s *domain.Submission) error {
	return m.UpdateFunc(ctx, s)
}

func (m *submissionRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func (m *submissionRepoMock) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return m.IncrementViewCountFunc(ctx, id)
}

func (m *submissionRepoMock) List(ctx context.Context, f domain.SubmissionFilter) ([]*domain.Submission, int, error) {
	return m.ListFunc(ctx, f)
}

func (m *submissionRepoMock) ModerationQueue(ctx context.Context, limit, offset int) ([]*domain.Submission, error) {
	return m.ModerationQueueFunc(ctx, limit, offset)
}

type contentRepoMock struct {
	QuestionExistsFunc func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *contentRepoMock) QuestionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.QuestionExistsFunc(ctx, id)
}

type fileRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.FileUpload, error)
}

func (m *fileRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileUpload, error) {
	return m.GetByIDFunc(ctx, id)
}

type flagRepoMock struct {
	CountOpenBySubmissionFunc func(ctx context.Context, submissionID uuid.UUID) (int, error)
}

func (m *flagRepoMock) CountOpenBySubmission(ctx context.Context, submissionID uuid.UUID) (int, error) {
	return m.CountOpenBySubmissionFunc(ctx, submissionID)
}

type publisherMock struct {
	events []domain.Event
}

func (m *publisherMock) Publish(e domain.Event) {
	m.events = append(m.events, e)
}
