package flag

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newTestService(subs submissionRepo, flags flagRepo, events publisher) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, subs, flags, &voteRepoMock{}, &reviewRepoMock{}, txManagerMock{}, events)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func moderator() domain.User {
	return domain.User{ID: uuid.New(), Role: domain.UserRoleTheologyReviewer}
}

// ---------------------------------------------------------------------------
// Flag tests
// ---------------------------------------------------------------------------

func TestService_Flag_ApprovedBecomesFlagged(t *testing.T) {
	t.Parallel()

	sub := &domain.Submission{
		ID:     uuid.New(),
		Status: domain.SubmissionStatusApproved,
	}

	var updated *domain.Submission
	subs := &submissionRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
			return sub, nil
		},
		UpdateFunc: func(ctx context.Context, s *domain.Submission) error {
			updated = s
			return nil
		},
	}
	flags := &flagRepoMock{
		CreateFunc: func(ctx context.Context, f *domain.Flag) error {
			assert.Equal(t, domain.FlagStatusOpen, f.Status)
			return nil
		},
		CountOpenBySubmissionFunc: func(ctx context.Context, submissionID uuid.UUID) (int, error) {
			return 1, nil
		},
	}

	svc := newTestService(subs, flags, &publisherMock{})
	f, err := svc.Flag(context.Background(), FlagInput{
		SubmissionID: sub.ID,
		FlaggerID:    uuid.New(),
		Reason:       domain.FlagReasonInaccurate,
	})

	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, domain.SubmissionStatusFlagged, updated.Status)
}

func TestService_Flag_PendingStaysPending(t *testing.T) {
	t.Parallel()

	sub := &domain.Submission{
		ID:     uuid.New(),
		Status: domain.SubmissionStatusPending,
	}

	var updated *domain.Submission
	subs := &submissionRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
			return sub, nil
		},
		UpdateFunc: func(ctx context.Context, s *domain.Submission) error {
			updated = s
			return nil
		},
	}
	flags := &flagRepoMock{
		CreateFunc: func(ctx context.Context, f *domain.Flag) error { return nil },
	}

	svc := newTestService(subs, flags, &publisherMock{})
	_, err := svc.Flag(context.Background(), FlagInput{
		SubmissionID: sub.ID,
		FlaggerID:    uuid.New(),
		Reason:       domain.FlagReasonInaccurate,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStatusPending, updated.Status)
}

func TestService_Flag_DuplicateOpenFlag(t *testing.T) {
	t.Parallel()

	sub := &domain.Submission{ID: uuid.New(), Status: domain.SubmissionStatusApproved}
	subs := &submissionRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
			return sub, nil
		},
	}
	flags := &flagRepoMock{
		HasOpenByFlaggerFunc: func(ctx context.Context, submissionID, flaggerID uuid.UUID) (bool, error) {
			return true, nil
		},
	}

	svc := newTestService(subs, flags, &publisherMock{})
	_, err := svc.Flag(context.Background(), FlagInput{
		SubmissionID: sub.ID,
		FlaggerID:    uuid.New(),
		Reason:       domain.FlagReasonInaccurate,
	})

	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestService_Flag_OtherReasonRequiresDetails(t *testing.T) {
	t.Parallel()

	svc := newTestService(&submissionRepoMock{}, &flagRepoMock{}, &publisherMock{})
	_, err := svc.Flag(context.Background(), FlagInput{
		SubmissionID: uuid.New(),
		FlaggerID:    uuid.New(),
		Reason:       domain.FlagReasonOther,
	})

	require.ErrorIs(t, err, domain.ErrValidation)
}

// ---------------------------------------------------------------------------
// Resolve tests
// ---------------------------------------------------------------------------

func TestService_Resolve_NonModerator(t *testing.T) {
	t.Parallel()

	svc := newTestService(&submissionRepoMock{}, &flagRepoMock{}, &publisherMock{})
	actor := domain.User{ID: uuid.New(), Role: domain.UserRolePublic}

	_, err := svc.Resolve(context.Background(), actor, ResolveInput{
		FlagID:     uuid.New(),
		Resolution: domain.FlagStatusResolved,
	})

	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_Resolve_NonTerminalResolution(t *testing.T) {
	t.Parallel()

	svc := newTestService(&submissionRepoMock{}, &flagRepoMock{}, &publisherMock{})

	_, err := svc.Resolve(context.Background(), moderator(), ResolveInput{
		FlagID:     uuid.New(),
		Resolution: domain.FlagStatusOpen,
	})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Resolve_AlreadyClosed(t *testing.T) {
	t.Parallel()

	f := &domain.Flag{
		ID:           uuid.New(),
		SubmissionID: uuid.New(),
		Status:       domain.FlagStatusResolved,
	}
	flags := &flagRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*domain.Flag, error) {
			return f, nil
		},
	}

	svc := newTestService(&submissionRepoMock{}, flags, &publisherMock{})
	_, err := svc.Resolve(context.Background(), moderator(), ResolveInput{
		FlagID:     f.ID,
		Resolution: domain.FlagStatusDismissed,
	})

	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestService_Resolve_LastOpenFlagRestoresApproved(t *testing.T) {
	t.Parallel()

	mod := moderator()
	sub := &domain.Submission{ID: uuid.New(), Status: domain.SubmissionStatusFlagged}
	f := &domain.Flag{
		ID:           uuid.New(),
		SubmissionID: sub.ID,
		Status:       domain.FlagStatusOpen,
	}

	var updated *domain.Submission
	subs := &submissionRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
			return sub, nil
		},
		UpdateFunc: func(ctx context.Context, s *domain.Submission) error {
			updated = s
			return nil
		},
	}
	flags := &flagRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*domain.Flag, error) {
			return f, nil
		},
		UpdateFunc: func(ctx context.Context, f *domain.Flag) error { return nil },
		CountOpenBySubmissionFunc: func(ctx context.Context, submissionID uuid.UUID) (int, error) {
			return 0, nil
		},
	}
	events := &publisherMock{}

	svc := newTestService(subs, flags, events)
	resolved, err := svc.Resolve(context.Background(), mod, ResolveInput{
		FlagID:     f.ID,
		Resolution: domain.FlagStatusResolved,
		Notes:      "checked against the catechism text",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FlagStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ModeratorID)
	assert.Equal(t, mod.ID, *resolved.ModeratorID)

	assert.Equal(t, domain.SubmissionStatusApproved, updated.Status)
	require.NotNil(t, updated.ApprovedAt)

	require.Len(t, events.events, 1)
	ev, ok := events.events[0].(domain.FlagResolved)
	require.True(t, ok)
	assert.Equal(t, f.ID, ev.FlagID)
	assert.Equal(t, mod.ID, ev.ModeratorID)
}

func TestService_Resolve_OpenFlagsRemain(t *testing.T) {
	t.Parallel()

	sub := &domain.Submission{ID: uuid.New(), Status: domain.SubmissionStatusFlagged}
	f := &domain.Flag{
		ID:           uuid.New(),
		SubmissionID: sub.ID,
		Status:       domain.FlagStatusOpen,
	}

	var updated *domain.Submission
	subs := &submissionRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
			return sub, nil
		},
		UpdateFunc: func(ctx context.Context, s *domain.Submission) error {
			updated = s
			return nil
		},
	}
	flags := &flagRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*domain.Flag, error) {
			return f, nil
		},
		UpdateFunc: func(ctx context.Context, f *domain.Flag) error { return nil },
		CountOpenBySubmissionFunc: func(ctx context.Context, submissionID uuid.UUID) (int, error) {
			return 2, nil
		},
	}

	svc := newTestService(subs, flags, &publisherMock{})
	_, err := svc.Resolve(context.Background(), moderator(), ResolveInput{
		FlagID:     f.ID,
		Resolution: domain.FlagStatusDismissed,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStatusFlagged, updated.Status)
}

// ---------------------------------------------------------------------------
// ListOpen tests
// ---------------------------------------------------------------------------

func TestService_ListOpen_NonModerator(t *testing.T) {
	t.Parallel()

	svc := newTestService(&submissionRepoMock{}, &flagRepoMock{}, &publisherMock{})
	actor := domain.User{ID: uuid.New(), Role: domain.UserRoleCatechist}

	_, err := svc.ListOpen(context.Background(), actor, 10)

	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_FlagsBy_OwnHistory(t *testing.T) {
	t.Parallel()

	actor := domain.User{ID: uuid.New(), Role: domain.UserRoleCatechist}
	want := []domain.Flag{{ID: uuid.New(), FlaggerID: actor.ID}}
	flags := &flagRepoMock{
		ListByFlaggerFunc: func(ctx context.Context, flaggerID uuid.UUID) ([]domain.Flag, error) {
			assert.Equal(t, actor.ID, flaggerID)
			return want, nil
		},
	}

	svc := newTestService(&submissionRepoMock{}, flags, &publisherMock{})
	got, err := svc.FlagsBy(context.Background(), actor, actor.ID)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_FlagsBy_StrangerForbidden(t *testing.T) {
	t.Parallel()

	actor := domain.User{ID: uuid.New(), Role: domain.UserRoleCatechist}

	svc := newTestService(&submissionRepoMock{}, &flagRepoMock{}, &publisherMock{})
	_, err := svc.FlagsBy(context.Background(), actor, uuid.New())

	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_FlagsBy_ModeratorReadsAnyone(t *testing.T) {
	t.Parallel()

	flaggerID := uuid.New()
	flags := &flagRepoMock{
		ListByFlaggerFunc: func(ctx context.Context, id uuid.UUID) ([]domain.Flag, error) {
			assert.Equal(t, flaggerID, id)
			return nil, nil
		},
	}

	svc := newTestService(&submissionRepoMock{}, flags, &publisherMock{})
	_, err := svc.FlagsBy(context.Background(), moderator(), flaggerID)

	require.NoError(t, err)
}

func TestService_ResolvedByModerator_NonModerator(t *testing.T) {
	t.Parallel()

	actor := domain.User{ID: uuid.New(), Role: domain.UserRoleCatechist}

	svc := newTestService(&submissionRepoMock{}, &flagRepoMock{}, &publisherMock{})
	_, err := svc.ResolvedByModerator(context.Background(), actor, uuid.New())

	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_ResolvedByModerator(t *testing.T) {
	t.Parallel()

	moderatorID := uuid.New()
	want := []domain.Flag{{ID: uuid.New(), ModeratorID: &moderatorID}}
	flags := &flagRepoMock{
		ListResolvedByModeratorFunc: func(ctx context.Context, id uuid.UUID) ([]domain.Flag, error) {
			assert.Equal(t, moderatorID, id)
			return want, nil
		},
	}

	svc := newTestService(&submissionRepoMock{}, flags, &publisherMock{})
	got, err := svc.ResolvedByModerator(context.Background(), moderator(), moderatorID)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
