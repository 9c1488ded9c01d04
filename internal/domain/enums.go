package domain

// SubmissionStatus represents the moderation lifecycle state of an
// explanation submission.
type SubmissionStatus string

const (
	SubmissionStatusPending     SubmissionStatus = "PENDING"
	SubmissionStatusUnderReview SubmissionStatus = "UNDER_REVIEW"
	SubmissionStatusApproved    SubmissionStatus = "APPROVED"
	SubmissionStatusRejected    SubmissionStatus = "REJECTED"
	SubmissionStatusFlagged     SubmissionStatus = "FLAGGED"
)

func (s SubmissionStatus) String() string { return string(s) }

func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusUnderReview, SubmissionStatusApproved,
		SubmissionStatusRejected, SubmissionStatusFlagged:
		return true
	}
	return false
}

// ContentType represents the media type of a submission.
type ContentType string

const (
	ContentTypeText  ContentType = "TEXT"
	ContentTypeAudio ContentType = "AUDIO"
	ContentTypeVideo ContentType = "VIDEO"
)

func (t ContentType) String() string { return string(t) }

func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeText, ContentTypeAudio, ContentTypeVideo:
		return true
	}
	return false
}

// IsFile reports whether the content is stored as an uploaded file.
func (t ContentType) IsFile() bool {
	return t == ContentTypeAudio || t == ContentTypeVideo
}

// FlagStatus represents the lifecycle state of a content flag.
type FlagStatus string

const (
	FlagStatusOpen      FlagStatus = "OPEN"
	FlagStatusReviewed  FlagStatus = "REVIEWED"
	FlagStatusResolved  FlagStatus = "RESOLVED"
	FlagStatusDismissed FlagStatus = "DISMISSED"
)

func (s FlagStatus) String() string { return string(s) }

func (s FlagStatus) IsValid() bool {
	switch s {
	case FlagStatusOpen, FlagStatusReviewed, FlagStatusResolved, FlagStatusDismissed:
		return true
	}
	return false
}

// IsTerminal reports whether the status closes the flag.
func (s FlagStatus) IsTerminal() bool {
	return s == FlagStatusResolved || s == FlagStatusDismissed
}

// FlagReason is the closed set of reasons a user may flag a submission.
type FlagReason string

const (
	FlagReasonInaccurate    FlagReason = "INACCURATE"
	FlagReasonInappropriate FlagReason = "INAPPROPRIATE"
	FlagReasonMisleading    FlagReason = "MISLEADING"
	FlagReasonPoorQuality   FlagReason = "POOR_QUALITY"
	FlagReasonDuplicate     FlagReason = "DUPLICATE"
	FlagReasonOffTopic      FlagReason = "OFF_TOPIC"
	FlagReasonOther         FlagReason = "OTHER"
)

func (r FlagReason) String() string { return string(r) }

func (r FlagReason) IsValid() bool {
	switch r {
	case FlagReasonInaccurate, FlagReasonInappropriate, FlagReasonMisleading,
		FlagReasonPoorQuality, FlagReasonDuplicate, FlagReasonOffTopic, FlagReasonOther:
		return true
	}
	return false
}

// ReviewStatus is a moderator's verdict on a submission.
type ReviewStatus string

const (
	ReviewStatusApproved      ReviewStatus = "APPROVED"
	ReviewStatusRejected      ReviewStatus = "REJECTED"
	ReviewStatusNeedsRevision ReviewStatus = "NEEDS_REVISION"
)

func (s ReviewStatus) String() string { return string(s) }

func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusApproved, ReviewStatusRejected, ReviewStatusNeedsRevision:
		return true
	}
	return false
}

// ActivityType classifies point-earning contribution activity.
type ActivityType string

const (
	ActivityTypeSubmission   ActivityType = "SUBMISSION"
	ActivityTypeReview       ActivityType = "REVIEW"
	ActivityTypeVote         ActivityType = "VOTE"
	ActivityTypeFlagResolved ActivityType = "FLAG_RESOLVED"
)

func (t ActivityType) String() string { return string(t) }

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTypeSubmission, ActivityTypeReview, ActivityTypeVote, ActivityTypeFlagResolved:
		return true
	}
	return false
}

// LeaderboardType identifies a ranked leaderboard window.
type LeaderboardType string

const (
	LeaderboardTypeWeekly  LeaderboardType = "WEEKLY"
	LeaderboardTypeMonthly LeaderboardType = "MONTHLY"
	LeaderboardTypeAllTime LeaderboardType = "ALL_TIME"
)

func (t LeaderboardType) String() string { return string(t) }

func (t LeaderboardType) IsValid() bool {
	switch t {
	case LeaderboardTypeWeekly, LeaderboardTypeMonthly, LeaderboardTypeAllTime:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRolePublic           UserRole = "PUBLIC_USER"
	UserRoleCatechist        UserRole = "CATECHIST"
	UserRolePriest           UserRole = "PRIEST"
	UserRoleTheologyReviewer UserRole = "THEOLOGY_REVIEWER"
	UserRoleAdmin            UserRole = "ADMIN"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRolePublic, UserRoleCatechist, UserRolePriest, UserRoleTheologyReviewer, UserRoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role may review submissions and
// resolve flags.
func (r UserRole) CanModerate() bool {
	switch r {
	case UserRolePriest, UserRoleTheologyReviewer, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// EntityType identifies the kind of domain entity an activity or event
// refers to.
type EntityType string

const (
	EntityTypeExplanation EntityType = "EXPLANATION"
	EntityTypeReview      EntityType = "REVIEW"
	EntityTypeVote        EntityType = "VOTE"
	EntityTypeFlag        EntityType = "FLAG"
	EntityTypeQuestion    EntityType = "QUESTION"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeExplanation, EntityTypeReview, EntityTypeVote, EntityTypeFlag, EntityTypeQuestion:
		return true
	}
	return false
}
