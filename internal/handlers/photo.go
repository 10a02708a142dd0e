package handlers

import (
	"io"
	"net/http"

	"dating-backend/internal/middleware"
	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// maxPhotoSize caps photo uploads at 10 MB
const maxPhotoSize = 10 << 20

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// GetPhoto handles GET /api/v1/photos/{id}
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, "Invalid photo id", http.StatusBadRequest)
		return
	}

	photo, err := h.photoService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, photo)
}

// AddPhoto handles POST /api/v1/photos. The photo file arrives as
// multipart form data under "file", with an optional "description".
func (h *PhotoHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		respondError(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	photo, err := h.photoService.Add(ctx, actorID, data, contentType, r.FormValue("description"))
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", actorID).
			Str("filename", header.Filename).
			Msg("Failed to add photo")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Int64("user_id", actorID).
		Int64("photo_id", photo.ID).
		Bool("is_main", photo.IsMain).
		Msg("Photo added")

	respondJSON(w, http.StatusCreated, photo)
}

// SetMain handles POST /api/v1/photos/{id}/set-main
func (h *PhotoHandler) SetMain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, "Invalid photo id", http.StatusBadRequest)
		return
	}

	if err := h.photoService.SetMain(ctx, actorID, id); err != nil {
		log.Warn().
			Err(err).
			Int64("user_id", actorID).
			Int64("photo_id", id).
			Msg("Failed to set main photo")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePhoto handles DELETE /api/v1/photos/{id}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, "Invalid photo id", http.StatusBadRequest)
		return
	}

	if err := h.photoService.Delete(ctx, actorID, id); err != nil {
		log.Warn().
			Err(err).
			Int64("user_id", actorID).
			Int64("photo_id", id).
			Msg("Failed to delete photo")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
