package flag

import (
	"strings"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

const (
	maxDetailsLength = 2_000
	maxNotesLength   = 2_000
)

// FlagInput holds the parameters for raising a flag.
type FlagInput struct {
	SubmissionID uuid.UUID
	FlaggerID    uuid.UUID
	Reason       domain.FlagReason
	Details      *string
}

// Validate checks all fields and collects all errors.
func (i *FlagInput) Validate() error {
	var errs []domain.FieldError

	if i.SubmissionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "submission_id", Message: "required"})
	}
	if i.FlaggerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "flagger_id", Message: "required"})
	}
	if !i.Reason.IsValid() {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "unknown flag reason"})
	}
	if i.Reason == domain.FlagReasonOther && (i.Details == nil || strings.TrimSpace(*i.Details) == "") {
		errs = append(errs, domain.FieldError{Field: "details", Message: "required when reason is OTHER"})
	}
	if i.Details != nil && len(*i.Details) > maxDetailsLength {
		errs = append(errs, domain.FieldError{Field: "details", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ResolveInput holds the parameters for resolving a flag.
type ResolveInput struct {
	FlagID     uuid.UUID
	Resolution domain.FlagStatus
	Notes      string
}

// Validate checks all fields and collects all errors. The terminal-status
// rule is enforced again on the domain entity; validating here surfaces it
// as a field error before any row is locked.
func (i *ResolveInput) Validate() error {
	var errs []domain.FieldError

	if i.FlagID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "flag_id", Message: "required"})
	}
	if !i.Resolution.IsTerminal() {
		errs = append(errs, domain.FieldError{Field: "resolution", Message: "must be RESOLVED or DISMISSED"})
	}
	if len(i.Notes) > maxNotesLength {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
