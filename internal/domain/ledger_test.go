package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeConsensus(t *testing.T) {
	t.Parallel()

	approved := Review{Status: ReviewStatusApproved}
	rejected := Review{Status: ReviewStatusRejected}
	revision := Review{Status: ReviewStatusNeedsRevision}

	tests := []struct {
		name    string
		reviews []Review
		want    *ReviewStatus
	}{
		{
			name:    "no reviews",
			reviews: nil,
			want:    nil,
		},
		{
			name:    "two of three approve",
			reviews: []Review{approved, approved, rejected},
			want:    statusPtr(ReviewStatusApproved),
		},
		{
			name:    "single review is not a majority of one half",
			reviews: []Review{approved, rejected},
			want:    nil,
		},
		{
			name:    "lone approval is a majority",
			reviews: []Review{approved},
			want:    statusPtr(ReviewStatusApproved),
		},
		{
			name:    "rejections can win",
			reviews: []Review{rejected, rejected, approved},
			want:    statusPtr(ReviewStatusRejected),
		},
		{
			name:    "revision votes never form consensus",
			reviews: []Review{revision, revision, revision},
			want:    nil,
		},
		{
			name:    "even split is a tie",
			reviews: []Review{approved, approved, rejected, rejected},
			want:    nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ComputeConsensus(tc.reviews)
			if tc.want == nil {
				assert.False(t, got.HasConsensus)
				assert.Nil(t, got.ConsensusStatus)
				return
			}
			assert.True(t, got.HasConsensus)
			require.NotNil(t, got.ConsensusStatus)
			assert.Equal(t, *tc.want, *got.ConsensusStatus)
		})
	}
}

func statusPtr(s ReviewStatus) *ReviewStatus { return &s }

func TestFlagResolve(t *testing.T) {
	t.Parallel()

	now := time.Now()
	moderator := uuid.New()

	t.Run("resolves an open flag", func(t *testing.T) {
		t.Parallel()

		f := Flag{Status: FlagStatusOpen}
		err := f.Resolve(moderator, "confirmed inaccurate", FlagStatusResolved, now)
		require.NoError(t, err)
		assert.Equal(t, FlagStatusResolved, f.Status)
		require.NotNil(t, f.ResolvedAt)
		assert.Equal(t, now, *f.ResolvedAt)
		require.NotNil(t, f.ModeratorID)
		assert.Equal(t, moderator, *f.ModeratorID)
	})

	t.Run("rejects a non-terminal resolution status", func(t *testing.T) {
		t.Parallel()

		f := Flag{Status: FlagStatusOpen}
		err := f.Resolve(moderator, "", FlagStatusOpen, now)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("rejects double resolution", func(t *testing.T) {
		t.Parallel()

		f := Flag{Status: FlagStatusDismissed}
		err := f.Resolve(moderator, "", FlagStatusResolved, now)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestSubmissionCanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from SubmissionStatus
		to   SubmissionStatus
		ok   bool
	}{
		{SubmissionStatusPending, SubmissionStatusUnderReview, true},
		{SubmissionStatusPending, SubmissionStatusApproved, true},
		{SubmissionStatusUnderReview, SubmissionStatusApproved, true},
		{SubmissionStatusUnderReview, SubmissionStatusRejected, true},
		{SubmissionStatusApproved, SubmissionStatusFlagged, true},
		{SubmissionStatusFlagged, SubmissionStatusApproved, true},
		// A later review verdict may overturn a published outcome.
		{SubmissionStatusApproved, SubmissionStatusRejected, true},
		{SubmissionStatusRejected, SubmissionStatusApproved, true},
		{SubmissionStatusPending, SubmissionStatusFlagged, false},
		{SubmissionStatusRejected, SubmissionStatusPending, false},
		{SubmissionStatusApproved, SubmissionStatusApproved, false},
	}

	for _, tc := range tests {
		s := Submission{Status: tc.from}
		assert.Equal(t, tc.ok, s.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestPeriodKey(t *testing.T) {
	t.Parallel()

	// Thursday of ISO week 35.
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-W35", PeriodKey(LeaderboardTypeWeekly, now))
	assert.Equal(t, "2026-08", PeriodKey(LeaderboardTypeMonthly, now))
	assert.Equal(t, "ALL", PeriodKey(LeaderboardTypeAllTime, now))

	// Early January belongs to the previous ISO year.
	jan := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-W53", PeriodKey(LeaderboardTypeWeekly, jan))
}

func TestPeriodStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 27, 23, 45, 0, 0, time.UTC)

	// Bounds are whole calendar days so a date-bucketed activity row on
	// the boundary day is included regardless of the rebuild's clock time.
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), PeriodStart(LeaderboardTypeWeekly, now))
	assert.Equal(t, time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC), PeriodStart(LeaderboardTypeMonthly, now))
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), PeriodStart(LeaderboardTypeAllTime, now))
}
