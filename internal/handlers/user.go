package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dating-backend/internal/middleware"
	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles the member directory and like requests
type UserHandler struct {
	userService *services.UserService
	likeService *services.LikeService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, likeService *services.LikeService) *UserHandler {
	return &UserHandler{
		userService: userService,
		likeService: likeService,
	}
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	query := r.URL.Query()
	params := services.DiscoverParams{
		Gender:  query.Get("gender"),
		OrderBy: query.Get("orderBy"),
		Likers:  query.Get("likers") == "true",
		Likees:  query.Get("likees") == "true",
		Page:    pageParams(r),
	}
	if v, err := strconv.Atoi(query.Get("minAge")); err == nil {
		params.MinAge = v
	}
	if v, err := strconv.Atoi(query.Get("maxAge")); err == nil {
		params.MaxAge = v
	}

	page, err := h.userService.Discover(ctx, actorID, params)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", actorID).
			Msg("Failed to list users")
		respondServiceError(w, err)
		return
	}

	writePagination(w, page)
	respondJSON(w, http.StatusOK, page.Items)
}

// GetUser handles GET /api/v1/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /api/v1/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	var req services.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateProfile(ctx, actorID, id, req)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", actorID).
			Msg("Failed to update profile")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// LikeUser handles POST /api/v1/users/{id}/like
func (h *UserHandler) LikeUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	recipientID, err := pathID(r, "id")
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	like, err := h.likeService.Like(ctx, actorID, recipientID)
	if err != nil {
		log.Warn().
			Err(err).
			Int64("liker_id", actorID).
			Int64("likee_id", recipientID).
			Msg("Failed to like user")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, like)
}
