package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
	flagsvc "github.com/opencatechism/catechesis-backend/internal/service/flag"
	"github.com/opencatechism/catechesis-backend/internal/service/review"
	votesvc "github.com/opencatechism/catechesis-backend/internal/service/vote"
)

type voteService interface {
	Vote(ctx context.Context, input votesvc.VoteInput) (*domain.Vote, error)
	UpdateVote(ctx context.Context, input votesvc.VoteInput) (*domain.Vote, error)
	RemoveVote(ctx context.Context, input votesvc.RemoveVoteInput) error
	Statistics(ctx context.Context, submissionID uuid.UUID) (domain.VoteStatistics, error)
	UserVote(ctx context.Context, submissionID, userID uuid.UUID) (*domain.Vote, error)
	VotesBy(ctx context.Context, userID uuid.UUID) ([]domain.Vote, error)
	TopVotedForQuestion(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.Submission, error)
}

type flagService interface {
	Flag(ctx context.Context, input flagsvc.FlagInput) (*domain.Flag, error)
	Resolve(ctx context.Context, moderator domain.User, input flagsvc.ResolveInput) (*domain.Flag, error)
	ListOpen(ctx context.Context, actor domain.User, limit int) ([]domain.Flag, error)
	FlagsBy(ctx context.Context, actor domain.User, flaggerID uuid.UUID) ([]domain.Flag, error)
	ResolvedByModerator(ctx context.Context, actor domain.User, moderatorID uuid.UUID) ([]domain.Flag, error)
	Statistics(ctx context.Context, submissionID uuid.UUID) (domain.FlagStatistics, error)
}

type reviewService interface {
	Review(ctx context.Context, reviewer domain.User, input review.ReviewInput) (*domain.Review, error)
	Consensus(ctx context.Context, submissionID uuid.UUID) (domain.ReviewConsensus, error)
	Scores(ctx context.Context, submissionID uuid.UUID) (domain.ReviewScores, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.Review, error)
}

// ModerationHandler serves the vote, flag, and review endpoints.
type ModerationHandler struct {
	votes   voteService
	flags   flagService
	reviews reviewService
	log     *slog.Logger
}

// NewModerationHandler creates a ModerationHandler.
func NewModerationHandler(votes voteService, flags flagService, reviews reviewService, logger *slog.Logger) *ModerationHandler {
	return &ModerationHandler{
		votes:   votes,
		flags:   flags,
		reviews: reviews,
		log:     logger.With("handler", "moderation"),
	}
}

// ---------------------------------------------------------------------------
// Votes
// ---------------------------------------------------------------------------

type voteRequest struct {
	IsHelpful bool    `json:"is_helpful"`
	Comment   *string `json:"comment"`
}

// Vote records the caller's helpfulness verdict on a submission.
// POST /submissions/{id}/votes
func (h *ModerationHandler) Vote(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	v, err := h.votes.Vote(r.Context(), votesvc.VoteInput{
		SubmissionID: id,
		UserID:       actor.ID,
		IsHelpful:    req.IsHelpful,
		Comment:      req.Comment,
	})
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

// UpdateVote replaces the caller's existing vote.
// PUT /submissions/{id}/votes
func (h *ModerationHandler) UpdateVote(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	v, err := h.votes.UpdateVote(r.Context(), votesvc.VoteInput{
		SubmissionID: id,
		UserID:       actor.ID,
		IsHelpful:    req.IsHelpful,
		Comment:      req.Comment,
	})
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// RemoveVote withdraws the caller's vote.
// DELETE /submissions/{id}/votes
func (h *ModerationHandler) RemoveVote(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	err := h.votes.RemoveVote(r.Context(), votesvc.RemoveVoteInput{
		SubmissionID: id,
		UserID:       actor.ID,
	})
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// VoteStatistics returns the vote summary of a submission.
// GET /submissions/{id}/votes/statistics
func (h *ModerationHandler) VoteStatistics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.votes.Statistics(r.Context(), id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// MyVote returns the caller's own vote on a submission.
// GET /submissions/{id}/votes/me
func (h *ModerationHandler) MyVote(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	v, err := h.votes.UserVote(r.Context(), id, actor.ID)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// MyVotes returns the caller's voting history.
// GET /votes/mine
func (h *ModerationHandler) MyVotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	votes, err := h.votes.VotesBy(r.Context(), actor.ID)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": votes})
}

// TopVoted lists a question's approved submissions by helpful votes.
// GET /questions/{id}/submissions/top-voted?limit=
func (h *ModerationHandler) TopVoted(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	subs, err := h.votes.TopVotedForQuestion(r.Context(), id, queryInt(r.URL.Query().Get("limit"), 10))
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": subs})
}

// ---------------------------------------------------------------------------
// Flags
// ---------------------------------------------------------------------------

type flagRequest struct {
	Reason  string  `json:"reason"`
	Details *string `json:"details"`
}

// Flag raises a content concern on a submission.
// POST /submissions/{id}/flags
func (h *ModerationHandler) Flag(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req flagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	f, err := h.flags.Flag(r.Context(), flagsvc.FlagInput{
		SubmissionID: id,
		FlaggerID:    actor.ID,
		Reason:       domain.FlagReason(req.Reason),
		Details:      req.Details,
	})
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusCreated, f)
}

type resolveRequest struct {
	Resolution string `json:"resolution"`
	Notes      string `json:"notes"`
}

// ResolveFlag closes an open flag with a terminal resolution.
// POST /flags/{id}/resolve
func (h *ModerationHandler) ResolveFlag(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	f, err := h.flags.Resolve(r.Context(), actor, flagsvc.ResolveInput{
		FlagID:     id,
		Resolution: domain.FlagStatus(req.Resolution),
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, f)
}

// OpenFlags lists open flags for the moderation dashboard.
// GET /flags/open?limit=
func (h *ModerationHandler) OpenFlags(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	flags, err := h.flags.ListOpen(r.Context(), actor, queryInt(r.URL.Query().Get("limit"), 50))
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": flags})
}

// UserFlags lists the flags a user has raised. Callers may read their
// own history; moderators may read anyone's.
// GET /users/{id}/flags
func (h *ModerationHandler) UserFlags(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	flags, err := h.flags.FlagsBy(r.Context(), actor, id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": flags})
}

// ResolvedFlags lists the flags a moderator has closed.
// GET /moderators/{id}/resolved-flags
func (h *ModerationHandler) ResolvedFlags(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	flags, err := h.flags.ResolvedByModerator(r.Context(), actor, id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": flags})
}

// FlagStatistics returns the flag summary of a submission.
// GET /submissions/{id}/flags/statistics
func (h *ModerationHandler) FlagStatistics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.flags.Statistics(r.Context(), id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// ---------------------------------------------------------------------------
// Reviews
// ---------------------------------------------------------------------------

type reviewRequest struct {
	Status               string  `json:"status"`
	Comments             *string `json:"comments"`
	QualityRating        *int    `json:"quality_rating"`
	AccuracyScore        *int    `json:"accuracy_score"`
	ClarityScore         *int    `json:"clarity_score"`
	TheologicalSoundness *int    `json:"theological_soundness"`
}

// Review records a moderator's structured assessment.
// POST /submissions/{id}/reviews
func (h *ModerationHandler) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rv, err := h.reviews.Review(r.Context(), actor, review.ReviewInput{
		SubmissionID:         id,
		Status:               domain.ReviewStatus(req.Status),
		Comments:             req.Comments,
		QualityRating:        req.QualityRating,
		AccuracyScore:        req.AccuracyScore,
		ClarityScore:         req.ClarityScore,
		TheologicalSoundness: req.TheologicalSoundness,
	})
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusCreated, rv)
}

// Reviews lists the reviews of a submission with consensus and averages.
// GET /submissions/{id}/reviews
func (h *ModerationHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.ListBySubmission(r.Context(), id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}
	consensus, err := h.reviews.Consensus(r.Context(), id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}
	scores, err := h.reviews.Scores(r.Context(), id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":     reviews,
		"consensus": consensus,
		"scores":    scores,
	})
}
