package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Profile metric keys used by the achievement engine. Each maps to exactly
// one denormalized counter on UserProfile; achievement progress is never
// recomputed from raw ledgers in the hot path.
const (
	MetricTotalSubmissions    = "total_submissions"
	MetricApprovedSubmissions = "approved_submissions"
	MetricTotalVotesCast      = "total_votes_cast"
	MetricTotalHelpfulVotes   = "total_helpful_votes"
	MetricReviewsCompleted    = "reviews_completed"
	MetricFlagsResolved       = "flags_resolved"
)

// UserProfile is the one-to-one gamification profile of a user. The
// denormalized counters are the single source of truth for achievement
// evaluation and are updated transactionally with the activity that
// changes them.
type UserProfile struct {
	ID     uuid.UUID
	UserID uuid.UUID

	Bio         *string
	AvatarURL   *string
	Location    *string
	WebsiteURL  *string
	DisplayName *string
	IsPublic    bool

	TotalSubmissions      int
	ApprovedSubmissions   int
	TotalVotesCast        int
	TotalHelpfulVotes     int
	TotalReviewsCompleted int
	TotalFlagsResolved    int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MetricValue returns the counter backing the given metric key, or false
// when the key is unknown.
func (p *UserProfile) MetricValue(key string) (int, bool) {
	switch key {
	case MetricTotalSubmissions:
		return p.TotalSubmissions, true
	case MetricApprovedSubmissions:
		return p.ApprovedSubmissions, true
	case MetricTotalVotesCast:
		return p.TotalVotesCast, true
	case MetricTotalHelpfulVotes:
		return p.TotalHelpfulVotes, true
	case MetricReviewsCompleted:
		return p.TotalReviewsCompleted, true
	case MetricFlagsResolved:
		return p.TotalFlagsResolved, true
	}
	return 0, false
}

// Badge is a static catalog entry. Codes are unique and referenced by the
// event handlers (FIRST_SUBMISSION, APPROVAL_10, ...).
type Badge struct {
	ID          uuid.UUID
	Code        string
	Name        string
	Description string
	IconURL     *string
	Category    string
	PointsValue int
	IsActive    bool
	CreatedAt   time.Time
}

// Badge codes awarded by the gamification event handlers.
const (
	BadgeFirstSubmission = "FIRST_SUBMISSION"
	BadgeFirstApproval   = "FIRST_APPROVAL"
	BadgeApproval10      = "APPROVAL_10"
	BadgeApproval50      = "APPROVAL_50"
	BadgeFirstVote       = "FIRST_VOTE"
	BadgeHelpful10       = "HELPFUL_10"
	BadgeHelpful100      = "HELPFUL_100"
	BadgeFirstReview     = "FIRST_REVIEW"
)

// UserBadge records an earned badge. (user, badge) is unique; awarding an
// already-held badge is a no-op.
type UserBadge struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	BadgeID     uuid.UUID
	EarnedAt    time.Time
	ContextNote *string
}

// Achievement is a static threshold target over a profile metric,
// optionally linked to a badge awarded on completion.
type Achievement struct {
	ID          uuid.UUID
	Code        string
	Name        string
	Description string
	IconURL     *string
	Category    string
	MetricKey   string
	TargetValue int
	PointsValue int
	BadgeID     *uuid.UUID
	IsActive    bool
	CreatedAt   time.Time
}

// UserAchievement tracks a user's progress toward an achievement.
// CurrentValue only increases and Completed is a one-way latch.
type UserAchievement struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AchievementID uuid.UUID
	CurrentValue  int
	Completed     bool
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Achievement is populated by read paths that join the definition.
	Achievement *Achievement
}

// ProgressPercent returns completion progress in [0,100] against target.
func (ua *UserAchievement) ProgressPercent(target int) int {
	if target <= 0 {
		return 0
	}
	pct := ua.CurrentValue * 100 / target
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// ContributionActivity is an append-only point-earning event. ActivityDate
// is the calendar date the activity occurred on, kept separate from the
// creation instant so day-boundary queries are stable.
type ContributionActivity struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ActivityType ActivityType
	EntityType   EntityType
	EntityID     uuid.UUID
	PointsEarned int
	ActivityDate time.Time
	CreatedAt    time.Time
}

// UserPoints is one user's point sum over an activity window, the raw
// input to a leaderboard rebuild.
type UserPoints struct {
	UserID uuid.UUID
	Points int
}

// LeaderboardEntry is one ranked row of a leaderboard period. Rows are
// rebuilt in bulk, never incrementally.
type LeaderboardEntry struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	LeaderboardType LeaderboardType
	PeriodKey       string
	Rank            int
	TotalPoints     int
	Submissions     int
	Approvals       int
	HelpfulVotes    int
	SnapshotAt      time.Time
}

// PeriodKeyAllTime is the constant period key for the all-time leaderboard.
const PeriodKeyAllTime = "ALL"

// PeriodKey returns the period key identifying the leaderboard window that
// contains now: ISO week ("2026-W35") for WEEKLY, "2026-08" for MONTHLY and
// the constant "ALL" for ALL_TIME.
func PeriodKey(t LeaderboardType, now time.Time) string {
	switch t {
	case LeaderboardTypeWeekly:
		year, week := now.UTC().ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case LeaderboardTypeMonthly:
		return now.UTC().Format("2006-01")
	default:
		return PeriodKeyAllTime
	}
}

// PeriodStart returns the inclusive lower bound of the activity window for
// a leaderboard type: 7 days for WEEKLY, one month for MONTHLY and a fixed
// epoch for ALL_TIME. The bound is a calendar day (midnight UTC) because
// activity rows are bucketed by activity_date, not by insertion time.
func PeriodStart(t LeaderboardType, now time.Time) time.Time {
	day := now.UTC().Truncate(24 * time.Hour)
	switch t {
	case LeaderboardTypeWeekly:
		return day.AddDate(0, 0, -7)
	case LeaderboardTypeMonthly:
		return day.AddDate(0, -1, 0)
	default:
		return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
}
