package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a user-contributed explanation attached to a catechism
// question. Its status is owned by the lifecycle service; counters and the
// quality score are mutated only inside the transaction that owns the
// triggering ledger write.
type Submission struct {
	ID           uuid.UUID
	QuestionID   uuid.UUID
	SubmitterID  uuid.UUID
	LanguageCode string
	ContentType  ContentType

	// TextContent is set for TEXT submissions.
	TextContent *string

	// File metadata, set for AUDIO/VIDEO submissions.
	FileURL       *string
	FileSizeBytes *int64
	FileMimeType  *string

	Status       SubmissionStatus
	QualityScore *int
	ViewCount    int
	HelpfulCount int

	SubmittedAt time.Time
	ReviewedAt  *time.Time
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanTransitionTo reports whether the lifecycle state machine permits
// moving from the current status to next. PENDING and UNDER_REVIEW feed
// the review pipeline; APPROVED and FLAGGED flip back and forth as flags
// open and close; a later review verdict may overturn APPROVED or
// REJECTED. No status is intrinsically terminal; deletion is the only
// exit.
func (s *Submission) CanTransitionTo(next SubmissionStatus) bool {
	if s.Status == next {
		return false
	}
	switch next {
	case SubmissionStatusUnderReview:
		return s.Status == SubmissionStatusPending || s.Status == SubmissionStatusApproved ||
			s.Status == SubmissionStatusRejected || s.Status == SubmissionStatusFlagged
	case SubmissionStatusApproved:
		return s.Status == SubmissionStatusPending || s.Status == SubmissionStatusUnderReview ||
			s.Status == SubmissionStatusFlagged || s.Status == SubmissionStatusRejected
	case SubmissionStatusRejected:
		return s.Status == SubmissionStatusPending || s.Status == SubmissionStatusUnderReview ||
			s.Status == SubmissionStatusFlagged || s.Status == SubmissionStatusApproved
	case SubmissionStatusFlagged:
		return s.Status == SubmissionStatusApproved
	case SubmissionStatusPending:
		return false
	}
	return false
}

// SubmissionFilter defines parameters for listing submissions. Zero values
// mean "no constraint"; the storage layer applies defaults and clamps.
type SubmissionFilter struct {
	QuestionID   *uuid.UUID
	SubmitterID  *uuid.UUID
	Status       *SubmissionStatus
	LanguageCode *string

	// SortBy: "submitted_at", "quality_score", or "helpful_count".
	SortBy string
	// SortOrder: "ASC" or "DESC".
	SortOrder string

	Limit  int
	Offset int
}

// FileUpload is the file collaborator's record for AUDIO/VIDEO content.
// The core only reads its safety verdict.
type FileUpload struct {
	ID            uuid.UUID
	UploaderID    uuid.UUID
	UploadType    ContentType
	FilePath      string
	FileSizeBytes int64
	MimeType      string
	ScanStatus    string
	CreatedAt     time.Time
}

// IsSafe reports whether the upload passed the virus scan.
func (f *FileUpload) IsSafe() bool {
	return f.ScanStatus == "CLEAN"
}

// User is the auth collaborator's view of an account: identity, role,
// registration instant. The core never issues or validates credentials.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Role      UserRole
	CreatedAt time.Time
}
