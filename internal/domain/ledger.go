package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one user's helpfulness verdict on one submission. The
// (submission, user) pair is unique; changing a vote replaces the row
// rather than editing it in place.
type Vote struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	UserID       uuid.UUID
	IsHelpful    bool
	Comment      *string
	CreatedAt    time.Time
}

// VoteStatistics summarizes the votes on a submission.
type VoteStatistics struct {
	TotalVotes        int
	HelpfulVotes      int
	UnhelpfulVotes    int
	HelpfulPercentage float64
}

// Flag is a user-raised content concern on a submission. At most one OPEN
// flag per (submission, flagger); once resolved or dismissed, the same user
// may flag again.
type Flag struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	FlaggerID    uuid.UUID
	Reason       FlagReason
	Details      *string
	Status       FlagStatus

	ModeratorID    *uuid.UUID
	ModeratorNotes *string
	ResolvedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resolve closes the flag. status must be a terminal flag status; a flag
// already closed cannot be resolved again.
func (f *Flag) Resolve(moderatorID uuid.UUID, notes string, status FlagStatus, now time.Time) error {
	if !status.IsTerminal() {
		return NewValidationError("resolution", "must be RESOLVED or DISMISSED")
	}
	if f.Status.IsTerminal() {
		return ErrConflict
	}
	f.ModeratorID = &moderatorID
	f.ModeratorNotes = &notes
	f.Status = status
	f.ResolvedAt = &now
	f.UpdatedAt = now
	return nil
}

// FlagStatistics summarizes the flags on a submission.
type FlagStatistics struct {
	TotalFlags     int
	OpenFlags      int
	ResolvedFlags  int
	DismissedFlags int
	ReasonCounts   map[FlagReason]int
}

// Review is a qualified moderator's structured assessment of a submission.
// All four criterion scores are optional; each, when present, is in [1,5].
// The (submission, reviewer) pair is unique.
type Review struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	ReviewerID   uuid.UUID
	Status       ReviewStatus
	Comments     *string

	QualityRating        *int
	AccuracyScore        *int
	ClarityScore         *int
	TheologicalSoundness *int

	ReviewedAt time.Time
	CreatedAt  time.Time
}

// ReviewConsensus is the strict-majority verdict over all reviews of a
// submission. ConsensusStatus is nil when no strict majority exists.
type ReviewConsensus struct {
	HasConsensus    bool
	ConsensusStatus *ReviewStatus
	ApprovalCount   int
	RejectionCount  int
	RevisionCount   int
}

// ComputeConsensus derives the strict-majority consensus from a set of
// reviews. A verdict must hold more than half of all reviews; ties never
// produce consensus.
func ComputeConsensus(reviews []Review) ReviewConsensus {
	c := ReviewConsensus{}
	for _, r := range reviews {
		switch r.Status {
		case ReviewStatusApproved:
			c.ApprovalCount++
		case ReviewStatusRejected:
			c.RejectionCount++
		case ReviewStatusNeedsRevision:
			c.RevisionCount++
		}
	}

	majority := float64(len(reviews)) / 2.0
	switch {
	case float64(c.ApprovalCount) > majority:
		s := ReviewStatusApproved
		c.ConsensusStatus = &s
		c.HasConsensus = true
	case float64(c.RejectionCount) > majority:
		s := ReviewStatusRejected
		c.ConsensusStatus = &s
		c.HasConsensus = true
	}
	return c
}

// ReviewScores holds per-criterion averages over the reviews of a
// submission. Averages are nil when no review provided that criterion.
type ReviewScores struct {
	ReviewCount    int
	AvgQuality     *float64
	AvgAccuracy    *float64
	AvgClarity     *float64
	AvgTheological *float64
}
