package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/opencatechism/catechesis-backend/internal/domain"
	"github.com/opencatechism/catechesis-backend/pkg/ctxutil"
)

type analyticsService interface {
	RunDaily(ctx context.Context, date time.Time) error
	Dashboard(ctx context.Context) (*domain.DashboardSummary, error)
	Trends(ctx context.Context, days int) ([]domain.DailySnapshot, error)
	TopExplanations(ctx context.Context, limit int) ([]domain.TopContentEntry, error)
	ContentBreakdown(ctx context.Context) (*domain.ContentBreakdown, error)
}

type leaderboardRebuilder interface {
	Rebuild(ctx context.Context, t domain.LeaderboardType) (int, error)
	RebuildAll(ctx context.Context) error
}

// AdminHandler serves admin REST endpoints: manual triggers for the
// snapshot job and leaderboard rebuilds, and the dashboard summary.
type AdminHandler struct {
	analytics analyticsService
	boards    leaderboardRebuilder
	log       *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(analytics analyticsService, boards leaderboardRebuilder, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		analytics: analytics,
		boards:    boards,
		log:       logger.With("handler", "admin"),
	}
}

// RunSnapshot triggers the daily snapshot job for today (or ?date=YYYY-MM-DD).
// POST /admin/analytics/snapshot
func (h *AdminHandler) RunSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	date := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	if err := h.analytics.RunDaily(r.Context(), date); err != nil {
		h.log.ErrorContext(r.Context(), "run snapshot", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"date":   date.Format("2006-01-02"),
	})
}

// RebuildLeaderboards triggers a rebuild of one board (?type=WEEKLY) or all.
// POST /admin/leaderboards/rebuild
func (h *AdminHandler) RebuildLeaderboards(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	if v := r.URL.Query().Get("type"); v != "" {
		t := domain.LeaderboardType(v)
		if !t.IsValid() {
			writeError(w, http.StatusBadRequest, "type must be WEEKLY, MONTHLY, or ALL_TIME")
			return
		}
		n, err := h.boards.Rebuild(r.Context(), t)
		if err != nil {
			h.log.ErrorContext(r.Context(), "rebuild leaderboard", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "entries": n})
		return
	}

	if err := h.boards.RebuildAll(r.Context()); err != nil {
		h.log.ErrorContext(r.Context(), "rebuild leaderboards", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Dashboard returns the latest analytics summary.
// GET /admin/analytics/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	summary, err := h.analytics.Dashboard(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "dashboard", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Trends returns the daily snapshot time series.
// GET /admin/analytics/trends?days=30
func (h *AdminHandler) Trends(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	snapshots, err := h.analytics.Trends(r.Context(), queryInt(r.URL.Query().Get("days"), 0))
	if err != nil {
		h.log.ErrorContext(r.Context(), "trends", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": snapshots})
}

// TopContent returns the quality-ranked approved submissions.
// GET /admin/analytics/top?limit=10
func (h *AdminHandler) TopContent(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	entries, err := h.analytics.TopExplanations(r.Context(), queryInt(r.URL.Query().Get("limit"), 10))
	if err != nil {
		h.log.ErrorContext(r.Context(), "top content", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

// Breakdown returns submissions grouped by status, type, and language.
// GET /admin/analytics/breakdown
func (h *AdminHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	breakdown, err := h.analytics.ContentBreakdown(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "content breakdown", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := ctxutil.ActorFromCtx(r.Context())
	if !ok || !actor.Role.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}
