// Package community implements the gamification engine: contribution
// activity, profile counters, achievements, badges, and leaderboards.
// Everything here is driven by best-effort event handlers, so every
// operation is idempotent or monotonic by construction.
package community

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type profileRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	Ensure(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	UpdateInfo(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error)
	IncrementMetric(ctx context.Context, userID uuid.UUID, metricKey string, delta int) (int, error)
}

type badgeRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Badge, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Badge, error)
	ListActive(ctx context.Context) ([]domain.Badge, error)
	Award(ctx context.Context, userID, badgeID uuid.UUID, note *string, now time.Time) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserBadge, error)
}

type achievementRepo interface {
	ListActive(ctx context.Context) ([]domain.Achievement, error)
	GetProgress(ctx context.Context, userID, achievementID uuid.UUID) (*domain.UserAchievement, error)
	UpsertProgress(ctx context.Context, ua *domain.UserAchievement) (*domain.UserAchievement, error)
	ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error)
}

type activityRepo interface {
	Create(ctx context.Context, a *domain.ContributionActivity) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ContributionActivity, error)
	SumPointsPerUserSince(ctx context.Context, since time.Time) ([]domain.UserPoints, error)
	TotalPoints(ctx context.Context, userID uuid.UUID) (int, error)
}

type leaderboardRepo interface {
	UpsertEntries(ctx context.Context, entries []domain.LeaderboardEntry) error
	Prune(ctx context.Context, t domain.LeaderboardType, periodKey string, keep int) error
	List(ctx context.Context, t domain.LeaderboardType, periodKey string, limit int) ([]domain.LeaderboardEntry, error)
	UserRank(ctx context.Context, t domain.LeaderboardType, periodKey string, userID uuid.UUID) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Points awarded per contribution type.
const (
	PointsSubmission   = 5
	PointsApproval     = 15
	PointsVote         = 1
	PointsReview       = 3
	PointsFlagResolved = 3
)

// maxLeaderboardSize caps how many ranked rows a rebuild keeps per period.
const maxLeaderboardSize = 500

// Service implements the gamification business logic.
type Service struct {
	profiles     profileRepo
	badges       badgeRepo
	achievements achievementRepo
	activities   activityRepo
	boards       leaderboardRepo
	tx           txManager
	log          *slog.Logger
	now          func() time.Time

	// rebuilds serializes concurrent leaderboard rebuilds per
	// (type, period key); duplicate callers share one run.
	rebuilds singleflight.Group
}

// NewService creates a new community service.
func NewService(
	log *slog.Logger,
	profiles profileRepo,
	badges badgeRepo,
	achievements achievementRepo,
	activities activityRepo,
	boards leaderboardRepo,
	tx txManager,
) *Service {
	return &Service{
		profiles:     profiles,
		badges:       badges,
		achievements: achievements,
		activities:   activities,
		boards:       boards,
		tx:           tx,
		log:          log,
		now:          time.Now,
	}
}

// activityMetric maps an activity type to the profile counter it bumps.
func activityMetric(t domain.ActivityType) (string, bool) {
	switch t {
	case domain.ActivityTypeSubmission:
		return domain.MetricTotalSubmissions, true
	case domain.ActivityTypeVote:
		return domain.MetricTotalVotesCast, true
	case domain.ActivityTypeReview:
		return domain.MetricReviewsCompleted, true
	case domain.ActivityTypeFlagResolved:
		return domain.MetricFlagsResolved, true
	}
	return "", false
}
