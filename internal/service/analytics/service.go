// Package analytics builds the nightly snapshots and the read-side
// aggregates behind the admin dashboard.
package analytics

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

type submissionStats interface {
	CountByStatus(ctx context.Context) (map[domain.SubmissionStatus]int, error)
	CountByType(ctx context.Context) (map[domain.ContentType]int, error)
	CountByLanguage(ctx context.Context) (map[string]int, error)
	CountSubmittedOn(ctx context.Context, date time.Time) (int, error)
	CountApprovedOn(ctx context.Context, date time.Time) (int, error)
	AvgQualityScore(ctx context.Context) (*float64, error)
	TopByQuality(ctx context.Context, limit int) ([]*domain.Submission, error)
	AvgReviewHours(ctx context.Context) (*float64, error)
}

type voteStats interface {
	GlobalStatistics(ctx context.Context) (total, helpful int, err error)
}

type flagStats interface {
	GlobalCounts(ctx context.Context) (total, open int, err error)
	CountResolvedOn(ctx context.Context, date time.Time) (int, error)
}

type reviewStats interface {
	CountAll(ctx context.Context) (int, error)
	CountCreatedOn(ctx context.Context, date time.Time) (int, error)
}

type userStats interface {
	CountAll(ctx context.Context) (int, error)
	CountByRole(ctx context.Context) (map[domain.UserRole]int, error)
	CountCreatedOn(ctx context.Context, date time.Time) (int, error)
}

type activityStats interface {
	CountDistinctUsersOn(ctx context.Context, date time.Time) (int, error)
}

type contentStats interface {
	Counts(ctx context.Context) (questions, booklets, acts int, err error)
	QuestionLabel(ctx context.Context, id uuid.UUID) (string, error)
}

type snapshotRepo interface {
	UpsertDaily(ctx context.Context, s *domain.DailySnapshot) error
	LatestDaily(ctx context.Context) (*domain.DailySnapshot, error)
	ListDailySince(ctx context.Context, from time.Time) ([]domain.DailySnapshot, error)
	UpsertGrowth(ctx context.Context, s *domain.UserGrowthSnapshot) error
	LatestGrowth(ctx context.Context) (*domain.UserGrowthSnapshot, error)
	ListGrowthSince(ctx context.Context, from time.Time) ([]domain.UserGrowthSnapshot, error)
	UpsertModeration(ctx context.Context, s *domain.ModerationSnapshot) error
	LatestModeration(ctx context.Context) (*domain.ModerationSnapshot, error)
	ListModerationSince(ctx context.Context, from time.Time) ([]domain.ModerationSnapshot, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// defaultTrendDays bounds how far back trend queries reach by default.
const defaultTrendDays = 30

// Service implements the analytics business logic.
type Service struct {
	subs       submissionStats
	votes      voteStats
	flags      flagStats
	reviews    reviewStats
	users      userStats
	activities activityStats
	content    contentStats
	snapshots  snapshotRepo
	log        *slog.Logger
	now        func() time.Time
}

// NewService creates a new analytics service.
func NewService(
	log *slog.Logger,
	subs submissionStats,
	votes voteStats,
	flags flagStats,
	reviews reviewStats,
	users userStats,
	activities activityStats,
	content contentStats,
	snapshots snapshotRepo,
) *Service {
	return &Service{
		subs:       subs,
		votes:      votes,
		flags:      flags,
		reviews:    reviews,
		users:      users,
		activities: activities,
		content:    content,
		snapshots:  snapshots,
		log:        log,
		now:        time.Now,
	}
}
