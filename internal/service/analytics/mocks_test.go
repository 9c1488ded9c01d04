package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

var (
	_ submissionStats = &submissionStatsMock{}
	_ voteStats       = &voteStatsMock{}
	_ flagStats       = &flagStatsMock{}
	_ reviewStats     = &reviewStatsMock{}
	_ userStats       = &userStatsMock{}
	_ activityStats   = &activityStatsMock{}
	_ contentStats    = &contentStatsMock{}
	_ snapshotRepo    = &snapshotRepoMock{}
)

// submissionStatsMock returns zero values for any func left nil, so tests
// only fill what they assert on.
type submissionStatsMock struct {
	CountByStatusFunc    func(ctx context.Context) (map[domain.SubmissionStatus]int, error)
	CountByTypeFunc      func(ctx context.Context) (map[domain.ContentType]int, error)
	CountByLanguageFunc  func(ctx context.Context) (map[string]int, error)
	CountSubmittedOnFunc func(ctx context.Context, date time.Time) (int, error)
	CountApprovedOnFunc  func(ctx context.Context, date time.Time) (int, error)
	AvgQualityScoreFunc  func(ctx context.Context) (*float64, error)
	TopByQualityFunc     func(ctx context.Context, limit int) ([]*domain.Submission, error)
	AvgReviewHoursFunc   func(ctx context.Context) (*float64, error)
}

func (m *submissionStatsMock) CountByStatus(ctx context.Context) (map[domain.SubmissionStatus]int, error) {
	if m.CountByStatusFunc == nil {
		return map[domain.SubmissionStatus]int{}, nil
	}
	return m.CountByStatusFunc(ctx)
}

func (m *submissionStatsMock) CountByType(ctx context.Context) (map[domain.ContentType]int, error) {
	if m.CountByTypeFunc == nil {
		return map[domain.ContentType]int{}, nil
	}
	return m.CountByTypeFunc(ctx)
}

func (m *submissionStatsMock) CountByLanguage(ctx context.Context) (map[string]int, error) {
	if m.CountByLanguageFunc == nil {
		return map[string]int{}, nil
	}
	return m.CountByLanguageFunc(ctx)
}

func (m *submissionStatsMock) CountSubmittedOn(ctx context.Context, date time.Time) (int, error) {
	if m.CountSubmittedOnFunc == nil {
		return 0, nil
	}
	return m.CountSubmittedOnFunc(ctx, date)
}

func (m *submissionStatsMock) CountApprovedOn(ctx context.Context, date time.Time) (int, error) {
	if m.CountApprovedOnFunc == nil {
		return 0, nil
	}
	return m.CountApprovedOnFunc(ctx, date)
}

func (m *submissionStatsMock) AvgQualityScore(ctx context.Context) (*float64, error) {
	if m.AvgQualityScoreFunc == nil {
		return nil, nil
	}
	return m.AvgQualityScoreFunc(ctx)
}

func (m *submissionStatsMock) TopByQuality(ctx context.Context, limit int) ([]*domain.Submission, error) {
	return m.TopByQualityFunc(ctx, limit)
}

func (m *submissionStatsMock) AvgReviewHours(ctx context.Context) (*float64, error) {
	if m.AvgReviewHoursFunc == nil {
		return nil, nil
	}
	return m.AvgReviewHoursFunc(ctx)
}

type voteStatsMock struct {
	GlobalStatisticsFunc func(ctx context.Context) (int, int, error)
}

func (m *voteStatsMock) GlobalStatistics(ctx context.Context) (int, int, error) {
	if m.GlobalStatisticsFunc == nil {
		return 0, 0, nil
	}
	return m.GlobalStatisticsFunc(ctx)
}

type flagStatsMock struct {
	GlobalCountsFunc    func(ctx context.Context) (int, int, error)
	CountResolvedOnFunc func(ctx context.Context, date time.Time) (int, error)
}

func (m *flagStatsMock) GlobalCounts(ctx context.Context) (int, int, error) {
	if m.GlobalCountsFunc == nil {
		return 0, 0, nil
	}
	return m.GlobalCountsFunc(ctx)
}

func (m *flagStatsMock) CountResolvedOn(ctx context.Context, date time.Time) (int, error) {
	if m.CountResolvedOnFunc == nil {
		return 0, nil
	}
	return m.CountResolvedOnFunc(ctx, date)
}

type reviewStatsMock struct {
	CountAllFunc       func(ctx context.Context) (int, error)
	CountCreatedOnFunc func(ctx context.Context, date time.Time) (int, error)
}

func (m *reviewStatsMock) CountAll(ctx context.Context) (int, error) {
	if m.CountAllFunc == nil {
		return 0, nil
	}
	return m.CountAllFunc(ctx)
}

func (m *reviewStatsMock) CountCreatedOn(ctx context.Context, date time.Time) (int, error) {
	if m.CountCreatedOnFunc == nil {
		return 0, nil
	}
	return m.CountCreatedOnFunc(ctx, date)
}

type userStatsMock struct {
	CountAllFunc       func(ctx context.Context) (int, error)
	CountByRoleFunc    func(ctx context.Context) (map[domain.UserRole]int, error)
	CountCreatedOnFunc func(ctx context.Context, date time.Time) (int, error)
}

func (m *userStatsMock) CountAll(ctx context.Context) (int, error) {
	if m.CountAllFunc == nil {
		return 0, nil
	}
	return m.CountAllFunc(ctx)
}

func (m *userStatsMock) CountByRole(ctx context.Context) (map[domain.UserRole]int, error) {
	if m.CountByRoleFunc == nil {
		return map[domain.UserRole]int{}, nil
	}
	return m.CountByRoleFunc(ctx)
}

func (m *userStatsMock) CountCreatedOn(ctx context.Context, date time.Time) (int, error) {
	if m.CountCreatedOnFunc == nil {
		return 0, nil
	}
	return m.CountCreatedOnFunc(ctx, date)
}

type activityStatsMock struct {
	CountDistinctUsersOnFunc func(ctx context.Context, date time.Time) (int, error)
}

func (m *activityStatsMock) CountDistinctUsersOn(ctx context.Context, date time.Time) (int, error) {
	if m.CountDistinctUsersOnFunc == nil {
		return 0, nil
	}
	return m.CountDistinctUsersOnFunc(ctx, date)
}

type contentStatsMock struct {
	CountsFunc        func(ctx context.Context) (int, int, int, error)
	QuestionLabelFunc func(ctx context.Context, id uuid.UUID) (string, error)
}

func (m *contentStatsMock) Counts(ctx context.Context) (int, int, int, error) {
	if m.CountsFunc == nil {
		return 0, 0, 0, nil
	}
	return m.CountsFunc(ctx)
}

func (m *contentStatsMock) QuestionLabel(ctx context.Context, id uuid.UUID) (string, error) {
	return m.QuestionLabelFunc(ctx, id)
}

type snapshotRepoMock struct {
	UpsertDailyFunc         func(ctx context.Context, s *domain.DailySnapshot) error
	LatestDailyFunc         func(ctx context.Context) (*domain.DailySnapshot, error)
	ListDailySinceFunc      func(ctx context.Context, from time.Time) ([]domain.DailySnapshot, error)
	UpsertGrowthFunc        func(ctx context.Context, s *domain.UserGrowthSnapshot) error
	LatestGrowthFunc        func(ctx context.Context) (*domain.UserGrowthSnapshot, error)
	ListGrowthSinceFunc     func(ctx context.Context, from time.Time) ([]domain.UserGrowthSnapshot, error)
	UpsertModerationFunc    func(ctx context.Context, s *domain.ModerationSnapshot) error
	LatestModerationFunc    func(ctx context.Context) (*domain.ModerationSnapshot, error)
	ListModerationSinceFunc func(ctx context.Context, from time.Time) ([]domain.ModerationSnapshot, error)
}

func (m *snapshotRepoMock) UpsertDaily(ctx context.Context, s *domain.DailySnapshot) error {
	if m.UpsertDailyFunc == nil {
		return nil
	}
	return m.UpsertDailyFunc(ctx, s)
}

func (m *snapshotRepoMock) LatestDaily(ctx context.Context) (*domain.DailySnapshot, error) {
	return m.LatestDailyFunc(ctx)
}

func (m *snapshotRepoMock) ListDailySince(ctx context.Context, from time.Time) ([]domain.DailySnapshot, error) {
	return m.ListDailySinceFunc(ctx, from)
}

func (m *snapshotRepoMock) UpsertGrowth(ctx context.Context, s *domain.UserGrowthSnapshot) error {
	if m.UpsertGrowthFunc == nil {
		return nil
	}
	return m.UpsertGrowthFunc(ctx, s)
}

func (m *snapshotRepoMock) LatestGrowth(ctx context.Context) (*domain.UserGrowthSnapshot, error) {
	return m.LatestGrowthFunc(ctx)
}

func (m *snapshotRepoMock) ListGrowthSince(ctx context.Context, from time.Time) ([]domain.UserGrowthSnapshot, error) {
	return m.ListGrowthSinceFunc(ctx, from)
}

func (m *snapshotRepoMock) UpsertModeration(ctx context.Context, s *domain.ModerationSnapshot) error {
	if m.UpsertModerationFunc == nil {
		return nil
	}
	return m.UpsertModerationFunc(ctx, s)
}

func (m *snapshotRepoMock) LatestModeration(ctx context.Context) (*domain.ModerationSnapshot, error) {
	return m.LatestModerationFunc(ctx)
}

func (m *snapshotRepoMock) ListModerationSince(ctx context.Context, from time.Time) ([]domain.ModerationSnapshot, error) {
	return m.ListModerationSinceFunc(ctx, from)
}
