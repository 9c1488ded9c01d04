package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailySnapshot is the immutable per-date content/engagement rollup built
// by the nightly analytics job. Re-running the job for a date overwrites
// that date's row; past rows are otherwise never mutated.
type DailySnapshot struct {
	ID           uuid.UUID
	SnapshotDate time.Time

	TotalQuestions int
	TotalBooklets  int
	TotalActs      int

	TotalSubmissions    int
	PendingSubmissions  int
	ApprovedSubmissions int
	RejectedSubmissions int
	FlaggedSubmissions  int
	NewSubmissionsToday int
	NewApprovalsToday   int

	TotalUsers       int
	NewUsersToday    int
	ActiveUsersToday int

	TotalVotes        int
	TotalHelpfulVotes int
	TotalFlags        int
	OpenFlags         int
	TotalReviews      int

	AvgQualityScore *float64
	AvgHelpfulPct   *float64

	CreatedAt time.Time
}

// UserGrowthSnapshot is the per-date role-bucketed user census.
type UserGrowthSnapshot struct {
	ID           uuid.UUID
	SnapshotDate time.Time

	TotalUsers        int
	PublicUsers       int
	Catechists        int
	Priests           int
	TheologyReviewers int
	Admins            int
	NewRegistrations  int
}

// ModerationSnapshot is the per-date moderation performance rollup.
type ModerationSnapshot struct {
	ID           uuid.UUID
	SnapshotDate time.Time

	AvgReviewHours        *float64
	QueueLength           int
	ReviewsCompletedToday int
	FlagsResolvedToday    int
}

// DashboardSummary composes the latest row of each snapshot type.
type DashboardSummary struct {
	SnapshotDate time.Time

	TotalQuestions      int
	TotalBooklets       int
	TotalUsers          int
	TotalSubmissions    int
	ApprovedSubmissions int
	PendingSubmissions  int
	OpenFlags           int
	AvgQualityScore     *float64
	AvgHelpfulPct       *float64

	NewSubmissionsToday int
	NewUsersToday       int
	NewApprovalsToday   int
	ActiveUsersToday    int

	ModerationQueueLength int
	AvgReviewHours        *float64
	ReviewsCompletedToday int

	RoleBreakdown *RoleBreakdown
}

// RoleBreakdown is the per-role user count block of the dashboard.
type RoleBreakdown struct {
	PublicUsers       int
	Catechists        int
	Priests           int
	TheologyReviewers int
	Admins            int
}

// TopContentEntry is one row of the quality-ranked submission listing.
type TopContentEntry struct {
	Rank        int
	EntityID    uuid.UUID
	EntityType  EntityType
	Label       string
	MetricKey   string
	MetricValue float64
}

// BreakdownEntry is one labeled count of a content breakdown.
type BreakdownEntry struct {
	Label string
	Count int
}

// ContentBreakdown groups submissions by status, content type and language.
type ContentBreakdown struct {
	ByStatus   []BreakdownEntry
	ByType     []BreakdownEntry
	ByLanguage []BreakdownEntry
}
