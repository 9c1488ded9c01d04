package vote

import (
	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

const maxCommentLength = 2_000

// VoteInput holds the parameters for casting or updating a vote.
type VoteInput struct {
	SubmissionID uuid.UUID
	UserID       uuid.UUID
	IsHelpful    bool
	Comment      *string
}

// Validate checks all fields and collects all errors.
func (i *VoteInput) Validate() error {
	var errs []domain.FieldError

	if i.SubmissionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "submission_id", Message: "required"})
	}
	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if i.Comment != nil && len(*i.Comment) > maxCommentLength {
		errs = append(errs, domain.FieldError{Field: "comment", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RemoveVoteInput holds the parameters for removing a vote.
type RemoveVoteInput struct {
	SubmissionID uuid.UUID
	UserID       uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *RemoveVoteInput) Validate() error {
	var errs []domain.FieldError

	if i.SubmissionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "submission_id", Message: "required"})
	}
	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
