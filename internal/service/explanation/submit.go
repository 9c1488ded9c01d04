package explanation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Submit accepts a new explanation into the moderation pipeline. The
// submission starts PENDING; the submitted event is published only after
// the row is persisted.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*domain.Submission, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.content.QuestionExists(ctx, input.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("check question: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("question %s: %w", input.QuestionID, domain.ErrNotFound)
	}

	now := s.now()
	sub := &domain.Submission{
		ID:           uuid.New(),
		QuestionID:   input.QuestionID,
		SubmitterID:  input.SubmitterID,
		LanguageCode: input.LanguageCode,
		ContentType:  input.ContentType,
		TextContent:  input.TextContent,
		Status:       domain.SubmissionStatusPending,
		SubmittedAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if input.ContentType.IsFile() {
		upload, err := s.files.GetByID(ctx, *input.FileUploadID)
		if err != nil {
			return nil, fmt.Errorf("get file upload: %w", err)
		}
		if upload.UploaderID != input.SubmitterID {
			return nil, fmt.Errorf("upload %s belongs to another user: %w", upload.ID, domain.ErrForbidden)
		}
		if !upload.IsSafe() {
			return nil, domain.NewValidationError("file_upload_id", "file has not passed the safety scan")
		}
		if upload.UploadType != input.ContentType {
			return nil, domain.NewValidationError("file_upload_id", "upload type does not match content type")
		}
		sub.FileURL = &upload.FilePath
		sub.FileSizeBytes = &upload.FileSizeBytes
		sub.FileMimeType = &upload.MimeType
	}

	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.events.Publish(domain.SubmissionSubmitted{
		SubmissionID: sub.ID,
		SubmitterID:  sub.SubmitterID,
		At:           now,
	})

	s.log.Info("submission accepted",
		"submission_id", sub.ID, "question_id", sub.QuestionID, "content_type", sub.ContentType.String())

	return sub, nil
}
