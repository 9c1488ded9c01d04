package domain

import (
	"time"

	"github.com/google/uuid"
)

// Domain events published by the lifecycle and ledger services and
// consumed asynchronously by the gamification handlers. Publishing is
// fire-and-forget: a handler failure never reaches the publisher.

// EventName identifies an event type for dispatch and metrics.
type EventName string

const (
	EventSubmissionSubmitted EventName = "submission.submitted"
	EventSubmissionApproved  EventName = "submission.approved"
	EventSubmissionVoted     EventName = "submission.voted"
	EventSubmissionReviewed  EventName = "submission.reviewed"
	EventFlagResolved        EventName = "flag.resolved"
)

// Event is implemented by every domain event.
type Event interface {
	Name() EventName
	OccurredAt() time.Time
}

// SubmissionSubmitted fires when a new submission enters the pipeline.
type SubmissionSubmitted struct {
	SubmissionID uuid.UUID
	SubmitterID  uuid.UUID
	At           time.Time
}

func (e SubmissionSubmitted) Name() EventName       { return EventSubmissionSubmitted }
func (e SubmissionSubmitted) OccurredAt() time.Time { return e.At }

// SubmissionApproved fires when a submission transitions to APPROVED.
type SubmissionApproved struct {
	SubmissionID uuid.UUID
	SubmitterID  uuid.UUID
	At           time.Time
}

func (e SubmissionApproved) Name() EventName       { return EventSubmissionApproved }
func (e SubmissionApproved) OccurredAt() time.Time { return e.At }

// SubmissionVoted fires after a vote is recorded. OwnerID is the
// submission author; helpful-vote credit goes to the owner only when the
// voter is someone else.
type SubmissionVoted struct {
	SubmissionID uuid.UUID
	VoterID      uuid.UUID
	OwnerID      uuid.UUID
	IsHelpful    bool
	At           time.Time
}

func (e SubmissionVoted) Name() EventName       { return EventSubmissionVoted }
func (e SubmissionVoted) OccurredAt() time.Time { return e.At }

// SubmissionReviewed fires after a moderator writes a review, regardless
// of verdict.
type SubmissionReviewed struct {
	SubmissionID uuid.UUID
	ReviewerID   uuid.UUID
	At           time.Time
}

func (e SubmissionReviewed) Name() EventName       { return EventSubmissionReviewed }
func (e SubmissionReviewed) OccurredAt() time.Time { return e.At }

// FlagResolved fires when a moderator closes a flag.
type FlagResolved struct {
	FlagID       uuid.UUID
	SubmissionID uuid.UUID
	ModeratorID  uuid.UUID
	Resolution   FlagStatus
	At           time.Time
}

func (e FlagResolved) Name() EventName       { return EventFlagResolved }
func (e FlagResolved) OccurredAt() time.Time { return e.At }
