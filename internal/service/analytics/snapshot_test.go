package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

var testNow = time.Date(2026, 3, 4, 1, 30, 0, 0, time.UTC)

type testDeps struct {
	subs       *submissionStatsMock
	votes      *voteStatsMock
	flags      *flagStatsMock
	reviews    *reviewStatsMock
	users      *userStatsMock
	activities *activityStatsMock
	content    *contentStatsMock
	snapshots  *snapshotRepoMock
}

func newTestDeps() *testDeps {
	return &testDeps{
		subs:       &submissionStatsMock{},
		votes:      &voteStatsMock{},
		flags:      &flagStatsMock{},
		reviews:    &reviewStatsMock{},
		users:      &userStatsMock{},
		activities: &activityStatsMock{},
		content:    &contentStatsMock{},
		snapshots:  &snapshotRepoMock{},
	}
}

func newTestService(d *testDeps) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, d.subs, d.votes, d.flags, d.reviews, d.users, d.activities, d.content, d.snapshots)
	svc.now = func() time.Time { return testNow }
	return svc
}

func ptr[T any](v T) *T { return &v }

// ---------------------------------------------------------------------------
// RunDaily tests
// ---------------------------------------------------------------------------

func TestService_RunDaily_StoresAllThreeSnapshots(t *testing.T) {
	t.Parallel()

	d := newTestDeps()
	d.content.CountsFunc = func(ctx context.Context) (int, int, int, error) {
		return 500, 40, 4, nil
	}
	d.subs.CountByStatusFunc = func(ctx context.Context) (map[domain.SubmissionStatus]int, error) {
		return map[domain.SubmissionStatus]int{
			domain.SubmissionStatusPending:     5,
			domain.SubmissionStatusUnderReview: 2,
			domain.SubmissionStatusApproved:    30,
			domain.SubmissionStatusRejected:    3,
			domain.SubmissionStatusFlagged:     1,
		}, nil
	}
	d.votes.GlobalStatisticsFunc = func(ctx context.Context) (int, int, error) {
		return 200, 150, nil
	}
	d.users.CountByRoleFunc = func(ctx context.Context) (map[domain.UserRole]int, error) {
		return map[domain.UserRole]int{
			domain.UserRolePublic:    80,
			domain.UserRoleCatechist: 15,
			domain.UserRoleAdmin:     2,
		}, nil
	}
	d.subs.AvgReviewHoursFunc = func(ctx context.Context) (*float64, error) {
		return ptr(18.5), nil
	}

	var daily *domain.DailySnapshot
	var growth *domain.UserGrowthSnapshot
	var moderation *domain.ModerationSnapshot
	d.snapshots.UpsertDailyFunc = func(ctx context.Context, s *domain.DailySnapshot) error {
		daily = s
		return nil
	}
	d.snapshots.UpsertGrowthFunc = func(ctx context.Context, s *domain.UserGrowthSnapshot) error {
		growth = s
		return nil
	}
	d.snapshots.UpsertModerationFunc = func(ctx context.Context, s *domain.ModerationSnapshot) error {
		moderation = s
		return nil
	}

	svc := newTestService(d)
	err := svc.RunDaily(context.Background(), testNow)
	require.NoError(t, err)

	wantDate := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	require.NotNil(t, daily)
	assert.Equal(t, wantDate, daily.SnapshotDate)
	assert.Equal(t, 41, daily.TotalSubmissions)
	assert.Equal(t, 30, daily.ApprovedSubmissions)
	assert.Equal(t, 200, daily.TotalVotes)
	require.NotNil(t, daily.AvgHelpfulPct)
	assert.InDelta(t, 75.0, *daily.AvgHelpfulPct, 0.001)

	require.NotNil(t, growth)
	assert.Equal(t, wantDate, growth.SnapshotDate)
	assert.Equal(t, 97, growth.TotalUsers)
	assert.Equal(t, 80, growth.PublicUsers)
	assert.Equal(t, 2, growth.Admins)

	require.NotNil(t, moderation)
	assert.Equal(t, wantDate, moderation.SnapshotDate)
	// PENDING + UNDER_REVIEW only; FLAGGED is not part of the review queue.
	assert.Equal(t, 7, moderation.QueueLength)
	require.NotNil(t, moderation.AvgReviewHours)
	assert.InDelta(t, 18.5, *moderation.AvgReviewHours, 0.001)
}

func TestService_RunDaily_NoVotesLeavesHelpfulPctNil(t *testing.T) {
	t.Parallel()

	d := newTestDeps()
	var daily *domain.DailySnapshot
	d.snapshots.UpsertDailyFunc = func(ctx context.Context, s *domain.DailySnapshot) error {
		daily = s
		return nil
	}

	svc := newTestService(d)
	require.NoError(t, svc.RunDaily(context.Background(), testNow))

	require.NotNil(t, daily)
	assert.Nil(t, daily.AvgHelpfulPct)
}

func TestService_RunDaily_OneBuilderFailingDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	d := newTestDeps()
	boom := errors.New("content counts query timed out")
	d.content.CountsFunc = func(ctx context.Context) (int, int, int, error) {
		return 0, 0, 0, boom
	}

	growthStored := false
	moderationStored := false
	d.snapshots.UpsertGrowthFunc = func(ctx context.Context, s *domain.UserGrowthSnapshot) error {
		growthStored = true
		return nil
	}
	d.snapshots.UpsertModerationFunc = func(ctx context.Context, s *domain.ModerationSnapshot) error {
		moderationStored = true
		return nil
	}

	svc := newTestService(d)
	err := svc.RunDaily(context.Background(), testNow)

	require.ErrorIs(t, err, boom)
	assert.True(t, growthStored)
	assert.True(t, moderationStored)
}

// ---------------------------------------------------------------------------
// Trend tests
// ---------------------------------------------------------------------------

func TestService_Trends_DefaultsWindow(t *testing.T) {
	t.Parallel()

	d := newTestDeps()
	var from time.Time
	d.snapshots.ListDailySinceFunc = func(ctx context.Context, f time.Time) ([]domain.DailySnapshot, error) {
		from = f
		return nil, nil
	}

	svc := newTestService(d)
	_, err := svc.Trends(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, testNow.AddDate(0, 0, -defaultTrendDays), from)
}

func TestService_RunDaily_TwiceSameDateKeepsOneRowPerType(t *testing.T) {
	t.Parallel()

	// The repo upserts on snapshot_date, so a re-run for the same date
	// replaces that date's row instead of adding a second one.
	daily := map[time.Time]*domain.DailySnapshot{}
	growth := map[time.Time]*domain.UserGrowthSnapshot{}
	moderation := map[time.Time]*domain.ModerationSnapshot{}

	d := newTestDeps()
	d.snapshots.UpsertDailyFunc = func(ctx context.Context, s *domain.DailySnapshot) error {
		daily[s.SnapshotDate] = s
		return nil
	}
	d.snapshots.UpsertGrowthFunc = func(ctx context.Context, s *domain.UserGrowthSnapshot) error {
		growth[s.SnapshotDate] = s
		return nil
	}
	d.snapshots.UpsertModerationFunc = func(ctx context.Context, s *domain.ModerationSnapshot) error {
		moderation[s.SnapshotDate] = s
		return nil
	}

	svc := newTestService(d)

	// Second run late in the day still lands on the same snapshot date.
	require.NoError(t, svc.RunDaily(context.Background(), time.Date(2026, 3, 4, 2, 0, 0, 0, time.UTC)))
	require.NoError(t, svc.RunDaily(context.Background(), time.Date(2026, 3, 4, 23, 59, 0, 0, time.UTC)))

	wantDate := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	require.Len(t, daily, 1)
	require.Len(t, growth, 1)
	require.Len(t, moderation, 1)
	assert.Contains(t, daily, wantDate)
	assert.Contains(t, growth, wantDate)
	assert.Contains(t, moderation, wantDate)
}
