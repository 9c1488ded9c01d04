package community

import (
	"context"
	"fmt"

	"github.com/opencatechism/catechesis-backend/internal/domain"
	"github.com/opencatechism/catechesis-backend/internal/event"
)

// RegisterHandlers subscribes the gamification reactions to the
// moderation event stream: points, profile counters, and the
// milestone badges tied to first and Nth contributions.
func RegisterHandlers(d *event.Dispatcher, s *Service) {
	d.Subscribe(domain.EventSubmissionSubmitted, s.onSubmitted)
	d.Subscribe(domain.EventSubmissionApproved, s.onApproved)
	d.Subscribe(domain.EventSubmissionVoted, s.onVoted)
	d.Subscribe(domain.EventSubmissionReviewed, s.onReviewed)
	d.Subscribe(domain.EventFlagResolved, s.onFlagResolved)
}

func (s *Service) onSubmitted(ctx context.Context, e domain.Event) error {
	ev, ok := e.(domain.SubmissionSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", e)
	}

	profile, err := s.RecordActivity(ctx, ev.SubmitterID,
		domain.ActivityTypeSubmission, domain.EntityTypeExplanation, ev.SubmissionID, PointsSubmission)
	if err != nil {
		return err
	}

	if profile.TotalSubmissions == 1 {
		if _, err := s.AwardBadge(ctx, ev.SubmitterID,
			domain.BadgeFirstSubmission, "Submitted your first explanation!"); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) onApproved(ctx context.Context, e domain.Event) error {
	ev, ok := e.(domain.SubmissionApproved)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", e)
	}

	profile, err := s.RecordApproval(ctx, ev.SubmitterID, ev.SubmissionID)
	if err != nil {
		return err
	}

	var code, note string
	switch profile.ApprovedSubmissions {
	case 1:
		code, note = domain.BadgeFirstApproval, "Your first approved explanation!"
	case 10:
		code, note = domain.BadgeApproval10, "10 approved explanations!"
	case 50:
		code, note = domain.BadgeApproval50, "50 approved explanations!"
	default:
		return nil
	}
	_, err = s.AwardBadge(ctx, ev.SubmitterID, code, note)
	return err
}

func (s *Service) onVoted(ctx context.Context, e domain.Event) error {
	ev, ok := e.(domain.SubmissionVoted)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", e)
	}

	profile, err := s.RecordActivity(ctx, ev.VoterID,
		domain.ActivityTypeVote, domain.EntityTypeExplanation, ev.SubmissionID, PointsVote)
	if err != nil {
		return err
	}
	if profile.TotalVotesCast == 1 {
		if _, err := s.AwardBadge(ctx, ev.VoterID,
			domain.BadgeFirstVote, "Cast your first vote!"); err != nil {
			return err
		}
	}

	// Helpful votes credit the submission owner, never self-votes.
	if !ev.IsHelpful || ev.VoterID == ev.OwnerID {
		return nil
	}
	owner, err := s.RecordHelpfulVote(ctx, ev.OwnerID)
	if err != nil {
		return err
	}
	switch owner.TotalHelpfulVotes {
	case 10:
		_, err = s.AwardBadge(ctx, ev.OwnerID, domain.BadgeHelpful10, "10 helpful votes received!")
	case 100:
		_, err = s.AwardBadge(ctx, ev.OwnerID, domain.BadgeHelpful100, "100 helpful votes received!")
	}
	return err
}

func (s *Service) onReviewed(ctx context.Context, e domain.Event) error {
	ev, ok := e.(domain.SubmissionReviewed)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", e)
	}

	_, err := s.RecordActivity(ctx, ev.ReviewerID,
		domain.ActivityTypeReview, domain.EntityTypeExplanation, ev.SubmissionID, PointsReview)
	return err
}

func (s *Service) onFlagResolved(ctx context.Context, e domain.Event) error {
	ev, ok := e.(domain.FlagResolved)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", e)
	}

	profile, err := s.RecordActivity(ctx, ev.ModeratorID,
		domain.ActivityTypeFlagResolved, domain.EntityTypeFlag, ev.FlagID, PointsFlagResolved)
	if err != nil {
		return err
	}
	if profile.TotalFlagsResolved == 1 {
		if _, err := s.AwardBadge(ctx, ev.ModeratorID,
			domain.BadgeFirstReview, "Completed your first moderation!"); err != nil {
			return err
		}
	}
	return nil
}
