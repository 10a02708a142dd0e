package handlers

import (
	"encoding/json"
	"net/http"

	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	userService *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		log.Error().
			Err(err).
			Str("username", req.Username).
			Msg("Failed to register user")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("User registered")

	respondJSON(w, http.StatusCreated, user)
}

// loginRequest represents a login payload
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// loginResponse carries the issued token and the member's profile
type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Warn().
			Err(err).
			Str("username", req.Username).
			Msg("Login failed")
		respondError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
