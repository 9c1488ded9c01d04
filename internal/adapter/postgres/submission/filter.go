package submission

import (
	"github.com/Masterminds/squirrel"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200

	sortBySubmittedAt  = "submitted_at"
	sortByQualityScore = "quality_score"
	sortByHelpfulCount = "helpful_count"

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// filter wraps domain.SubmissionFilter with the SQL-side defaulting and
// query building.
type filter struct {
	domain.SubmissionFilter
}

// normalize applies defaults and clamps values.
func (f *filter) normalize() {
	switch f.SortBy {
	case sortBySubmittedAt, sortByQualityScore, sortByHelpfulCount:
		// valid
	default:
		f.SortBy = sortBySubmittedAt
	}

	switch f.SortOrder {
	case sortOrderASC, sortOrderDESC:
		// valid
	default:
		f.SortOrder = sortOrderDESC
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// where builds the squirrel conjunction for the active filter fields.
func (f *filter) where() squirrel.And {
	and := squirrel.And{}
	if f.QuestionID != nil {
		and = append(and, squirrel.Eq{"question_id": *f.QuestionID})
	}
	if f.SubmitterID != nil {
		and = append(and, squirrel.Eq{"submitter_id": *f.SubmitterID})
	}
	if f.Status != nil {
		and = append(and, squirrel.Eq{"status": f.Status.String()})
	}
	if f.LanguageCode != nil {
		and = append(and, squirrel.Eq{"language_code": *f.LanguageCode})
	}
	if len(and) == 0 {
		and = append(and, squirrel.Expr("TRUE"))
	}
	return and
}

func (f *filter) orderBy() string {
	// NULLS LAST keeps unscored submissions at the tail when sorting by
	// quality score descending.
	if f.SortBy == sortByQualityScore {
		return f.SortBy + " " + f.SortOrder + " NULLS LAST"
	}
	return f.SortBy + " " + f.SortOrder
}
