package review

import (
	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

const maxCommentsLength = 5_000

// ReviewInput holds the parameters for writing a review. Each criterion
// score is optional; a provided score outside [1,5] is rejected, never
// clamped.
type ReviewInput struct {
	SubmissionID uuid.UUID
	Status       domain.ReviewStatus
	Comments     *string

	QualityRating        *int
	AccuracyScore        *int
	ClarityScore         *int
	TheologicalSoundness *int
}

// Validate checks all fields and collects all errors.
func (i *ReviewInput) Validate() error {
	var errs []domain.FieldError

	if i.SubmissionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "submission_id", Message: "required"})
	}
	if !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be APPROVED, REJECTED, or NEEDS_REVISION"})
	}
	if i.Comments != nil && len(*i.Comments) > maxCommentsLength {
		errs = append(errs, domain.FieldError{Field: "comments", Message: "too long"})
	}

	for _, sc := range []struct {
		field string
		value *int
	}{
		{"quality_rating", i.QualityRating},
		{"accuracy_score", i.AccuracyScore},
		{"clarity_score", i.ClarityScore},
		{"theological_soundness", i.TheologicalSoundness},
	} {
		if sc.value != nil && (*sc.value < 1 || *sc.value > 5) {
			errs = append(errs, domain.FieldError{Field: sc.field, Message: "must be between 1 and 5"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
