package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
	"github.com/opencatechism/catechesis-backend/internal/service/explanation"
)

type explanationService interface {
	Submit(ctx context.Context, input explanation.SubmitInput) (*domain.Submission, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	RecordView(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input explanation.ListInput) ([]*domain.Submission, int, error)
	ModerationQueue(ctx context.Context, actor domain.User, limit, offset int) ([]*domain.Submission, error)
	UpdateText(ctx context.Context, input explanation.UpdateTextInput) (*domain.Submission, error)
	Delete(ctx context.Context, actor domain.User, id uuid.UUID) error
}

// SubmissionHandler serves the explanation submission endpoints.
type SubmissionHandler struct {
	explanations explanationService
	log          *slog.Logger
}

// NewSubmissionHandler creates a SubmissionHandler.
func NewSubmissionHandler(explanations explanationService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		explanations: explanations,
		log:          logger.With("handler", "submission"),
	}
}

type submissionDTO struct {
	ID           uuid.UUID  `json:"id"`
	QuestionID   uuid.UUID  `json:"question_id"`
	SubmitterID  uuid.UUID  `json:"submitter_id"`
	LanguageCode string     `json:"language_code"`
	ContentType  string     `json:"content_type"`
	TextContent  *string    `json:"text_content,omitempty"`
	FileURL      *string    `json:"file_url,omitempty"`
	Status       string     `json:"status"`
	QualityScore *int       `json:"quality_score,omitempty"`
	ViewCount    int        `json:"view_count"`
	HelpfulCount int        `json:"helpful_count"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
}

func toSubmissionDTO(s *domain.Submission) submissionDTO {
	return submissionDTO{
		ID:           s.ID,
		QuestionID:   s.QuestionID,
		SubmitterID:  s.SubmitterID,
		LanguageCode: s.LanguageCode,
		ContentType:  s.ContentType.String(),
		TextContent:  s.TextContent,
		FileURL:      s.FileURL,
		Status:       s.Status.String(),
		QualityScore: s.QualityScore,
		ViewCount:    s.ViewCount,
		HelpfulCount: s.HelpfulCount,
		SubmittedAt:  s.SubmittedAt,
		ReviewedAt:   s.ReviewedAt,
		ApprovedAt:   s.ApprovedAt,
	}
}

func toSubmissionDTOs(subs []*domain.Submission) []submissionDTO {
	out := make([]submissionDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubmissionDTO(s))
	}
	return out
}

type submitRequest struct {
	QuestionID   uuid.UUID  `json:"question_id"`
	LanguageCode string     `json:"language_code"`
	ContentType  string     `json:"content_type"`
	TextContent  *string    `json:"text_content"`
	FileUploadID *uuid.UUID `json:"file_upload_id"`
}

// Submit creates a new explanation submission.
// POST /submissions
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub, err := h.explanations.Submit(r.Context(), explanation.SubmitInput{
		QuestionID:   req.QuestionID,
		SubmitterID:  actor.ID,
		LanguageCode: req.LanguageCode,
		ContentType:  domain.ContentType(req.ContentType),
		TextContent:  req.TextContent,
		FileUploadID: req.FileUploadID,
	})
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubmissionDTO(sub))
}

// Get returns one submission and counts the view.
// GET /submissions/{id}
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	sub, err := h.explanations.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	// View counting is best-effort; a failed increment never blocks the read.
	if err := h.explanations.RecordView(r.Context(), id); err != nil {
		h.log.WarnContext(r.Context(), "record view", slog.String("error", err.Error()))
	}

	writeJSON(w, http.StatusOK, toSubmissionDTO(sub))
}

// List returns submissions filtered by query parameters.
// GET /submissions?question_id=&submitter_id=&status=&language=&sort_by=&sort_order=&limit=&offset=
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := explanation.ListInput{
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Limit:     queryInt(q.Get("limit"), 0),
		Offset:    queryInt(q.Get("offset"), 0),
	}
	if v := q.Get("question_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "question_id must be a UUID")
			return
		}
		input.QuestionID = &id
	}
	if v := q.Get("submitter_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "submitter_id must be a UUID")
			return
		}
		input.SubmitterID = &id
	}
	if v := q.Get("status"); v != "" {
		status := domain.SubmissionStatus(v)
		input.Status = &status
	}
	if v := q.Get("language"); v != "" {
		input.LanguageCode = &v
	}

	subs, total, err := h.explanations.List(r.Context(), input)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": toSubmissionDTOs(subs),
		"total": total,
	})
}

// Queue returns the moderation queue, flagged content first.
// GET /moderation/queue?limit=&offset=
func (h *SubmissionHandler) Queue(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	subs, err := h.explanations.ModerationQueue(r.Context(), actor,
		queryInt(q.Get("limit"), 50), queryInt(q.Get("offset"), 0))
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": toSubmissionDTOs(subs)})
}

type updateTextRequest struct {
	TextContent string `json:"text_content"`
}

// UpdateText replaces the text of the caller's own TEXT submission.
// PUT /submissions/{id}
func (h *SubmissionHandler) UpdateText(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub, err := h.explanations.UpdateText(r.Context(), explanation.UpdateTextInput{
		SubmissionID: id,
		ActorID:      actor.ID,
		TextContent:  req.TextContent,
	})
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionDTO(sub))
}

// Delete removes a submission (owner or moderator).
// DELETE /submissions/{id}
func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.explanations.Delete(r.Context(), actor, id); err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
