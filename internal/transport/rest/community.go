package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
	"github.com/opencatechism/catechesis-backend/internal/service/community"
)

type communityService interface {
	Profile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input community.UpdateProfileInput) (*domain.UserProfile, error)
	ListBadges(ctx context.Context) ([]domain.Badge, error)
	UserBadges(ctx context.Context, userID uuid.UUID) ([]domain.UserBadge, error)
	UserAchievements(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error)
	TotalPoints(ctx context.Context, userID uuid.UUID) (int, error)
	RecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ContributionActivity, error)
	Leaderboard(ctx context.Context, t domain.LeaderboardType, limit int) ([]domain.LeaderboardEntry, error)
	UserRank(ctx context.Context, t domain.LeaderboardType, userID uuid.UUID) (int, error)
}

// CommunityHandler serves the gamification read endpoints and profile
// updates.
type CommunityHandler struct {
	community communityService
	log       *slog.Logger
}

// NewCommunityHandler creates a CommunityHandler.
func NewCommunityHandler(svc communityService, logger *slog.Logger) *CommunityHandler {
	return &CommunityHandler{
		community: svc,
		log:       logger.With("handler", "community"),
	}
}

// Profile returns a user's community profile.
// GET /users/{id}/profile
func (h *CommunityHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.community.Profile(r.Context(), id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	Location    *string `json:"location"`
	WebsiteURL  *string `json:"website_url"`
	DisplayName *string `json:"display_name"`
	IsPublic    *bool   `json:"is_public"`
}

// UpdateProfile updates the caller's own profile fields.
// PUT /me/profile
func (h *CommunityHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	profile, err := h.community.UpdateProfile(r.Context(), actor.ID, community.UpdateProfileInput{
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Location:    req.Location,
		WebsiteURL:  req.WebsiteURL,
		DisplayName: req.DisplayName,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Badges returns the active badge catalog.
// GET /badges
func (h *CommunityHandler) Badges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.community.ListBadges(r.Context())
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": badges})
}

// UserBadges returns the badges a user has earned.
// GET /users/{id}/badges
func (h *CommunityHandler) UserBadges(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	badges, err := h.community.UserBadges(r.Context(), id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": badges})
}

// UserAchievements returns a user's achievement progress.
// GET /users/{id}/achievements
func (h *CommunityHandler) UserAchievements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	achievements, err := h.community.UserAchievements(r.Context(), id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": achievements})
}

// UserActivity returns a user's point total and latest activity.
// GET /users/{id}/activity?limit=
func (h *CommunityHandler) UserActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	points, err := h.community.TotalPoints(r.Context(), id)
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}
	activity, err := h.community.RecentActivity(r.Context(), id, queryInt(r.URL.Query().Get("limit"), 20))
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_points": points,
		"items":        activity,
	})
}

// Leaderboard returns the current-period ranking of a board.
// GET /leaderboards/{type}?limit=
func (h *CommunityHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	t := domain.LeaderboardType(r.PathValue("type"))

	entries, err := h.community.Leaderboard(r.Context(), t, queryInt(r.URL.Query().Get("limit"), 50))
	if err != nil {
		respondError(w, h.log, r.Context(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

// MyRank returns the caller's rank on a board, or 404 when unranked.
// GET /leaderboards/{type}/me
func (h *CommunityHandler) MyRank(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	t := domain.LeaderboardType(r.PathValue("type"))

	rank, err := h.community.UserRank(r.Context(), t, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not ranked")
			return
		}
		respondError(w, h.log, r.Context(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"rank": rank})
}
