package explanation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

const maxTextLength = 20_000

// SubmitInput holds the parameters for submitting an explanation.
type SubmitInput struct {
	QuestionID   uuid.UUID
	SubmitterID  uuid.UUID
	LanguageCode string
	ContentType  domain.ContentType

	// TextContent is required for TEXT submissions.
	TextContent *string

	// FileUploadID references the file collaborator's record for
	// AUDIO/VIDEO submissions.
	FileUploadID *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *SubmitInput) Validate() error {
	var errs []domain.FieldError

	if i.QuestionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "question_id", Message: "required"})
	}
	if i.SubmitterID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "submitter_id", Message: "required"})
	}
	if l := len(i.LanguageCode); l < 2 || l > 10 {
		errs = append(errs, domain.FieldError{Field: "language_code", Message: "must be a 2-10 character language tag"})
	}
	if !i.ContentType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "content_type", Message: "must be TEXT, AUDIO, or VIDEO"})
	}

	if i.ContentType == domain.ContentTypeText {
		switch {
		case i.TextContent == nil || strings.TrimSpace(*i.TextContent) == "":
			errs = append(errs, domain.FieldError{Field: "text_content", Message: "required for TEXT submissions"})
		case len(*i.TextContent) > maxTextLength:
			errs = append(errs, domain.FieldError{Field: "text_content", Message: "too long"})
		}
	}
	if i.ContentType.IsFile() && i.FileUploadID == nil {
		errs = append(errs, domain.FieldError{Field: "file_upload_id", Message: "required for AUDIO/VIDEO submissions"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateTextInput holds the parameters for an owner edit of a TEXT
// submission.
type UpdateTextInput struct {
	SubmissionID uuid.UUID
	ActorID      uuid.UUID
	TextContent  string
}

// Validate checks all fields and collects all errors.
func (i *UpdateTextInput) Validate() error {
	var errs []domain.FieldError

	if i.SubmissionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "submission_id", Message: "required"})
	}
	if i.ActorID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "actor_id", Message: "required"})
	}
	if strings.TrimSpace(i.TextContent) == "" {
		errs = append(errs, domain.FieldError{Field: "text_content", Message: "required"})
	}
	if len(i.TextContent) > maxTextLength {
		errs = append(errs, domain.FieldError{Field: "text_content", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListInput holds the parameters for listing submissions.
type ListInput struct {
	QuestionID   *uuid.UUID
	SubmitterID  *uuid.UUID
	Status       *domain.SubmissionStatus
	LanguageCode *string
	SortBy       string
	SortOrder    string
	Limit        int
	Offset       int
}

// Validate checks all fields and collects all errors.
func (i *ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *ListInput) filter() domain.SubmissionFilter {
	return domain.SubmissionFilter{
		QuestionID:   i.QuestionID,
		SubmitterID:  i.SubmitterID,
		Status:       i.Status,
		LanguageCode: i.LanguageCode,
		SortBy:       i.SortBy,
		SortOrder:    i.SortOrder,
		Limit:        i.Limit,
		Offset:       i.Offset,
	}
}
