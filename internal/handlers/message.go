package handlers

import (
	"encoding/json"
	"net/http"

	"dating-backend/internal/middleware"
	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// ListMessages handles GET /api/v1/messages?container=Inbox|Outbox|Unread
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	container := r.URL.Query().Get("container")
	page, err := h.messageService.ListForUser(ctx, actorID, container, pageParams(r))
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", actorID).
			Str("container", container).
			Msg("Failed to list messages")
		respondServiceError(w, err)
		return
	}

	writePagination(w, page)
	respondJSON(w, http.StatusOK, page.Items)
}

// GetThread handles GET /api/v1/messages/thread/{userId}
func (h *MessageHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	otherID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	thread, err := h.messageService.Thread(ctx, actorID, otherID)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", actorID).
			Int64("other_id", otherID).
			Msg("Failed to get message thread")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// GetMessage handles GET /api/v1/messages/{id}
func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	message, err := h.messageService.Get(ctx, actorID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, message)
}

// SendMessage handles POST /api/v1/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	var req services.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := h.messageService.Send(ctx, actorID, req)
	if err != nil {
		log.Error().
			Err(err).
			Int64("sender_id", actorID).
			Int64("recipient_id", req.RecipientID).
			Msg("Failed to send message")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, message)
}

// MarkRead handles POST /api/v1/messages/{id}/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	if err := h.messageService.MarkRead(ctx, actorID, id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteMessage handles DELETE /api/v1/messages/{id}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	if err := h.messageService.Delete(ctx, actorID, id); err != nil {
		log.Warn().
			Err(err).
			Int64("user_id", actorID).
			Int64("message_id", id).
			Msg("Failed to delete message")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
