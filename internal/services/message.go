package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"
	"dating-backend/internal/pagination"
	"dating-backend/internal/repository"
)

// MessageService handles private messages between members.
type MessageService struct {
	messages MessageStore
	users    UserStore
}

// NewMessageService creates a new message service
func NewMessageService(messages MessageStore, users UserStore) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
	}
}

// SendRequest represents a request to send a message
type SendRequest struct {
	RecipientID int64  `json:"recipient_id" validate:"required"`
	Content     string `json:"content" validate:"required,max=4000"`
}

// Send creates a message from the actor to the recipient
func (s *MessageService) Send(ctx context.Context, actorID int64, req SendRequest) (*models.Message, error) {
	exists, err := s.users.Exists(ctx, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check recipient: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("recipient %d: %w", req.RecipientID, apperr.ErrNotFound)
	}

	message := &models.Message{
		SenderID:    actorID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
		SentAt:      time.Now(),
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// Get retrieves a message. Only the sender and the recipient may see it.
func (s *MessageService) Get(ctx context.Context, actorID, id int64) (*models.Message, error) {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if message.SenderID != actorID && message.RecipientID != actorID {
		return nil, fmt.Errorf("message %d does not involve user %d: %w", id, actorID, apperr.ErrUnauthorized)
	}

	return message, nil
}

// ListForUser retrieves one container of the actor's messages, newest
// first. Unknown container names fall back to Unread, matching the
// query's default.
func (s *MessageService) ListForUser(ctx context.Context, actorID int64, container string, page pagination.Params) (pagination.Page[*models.Message], error) {
	var empty pagination.Page[*models.Message]

	page = page.Normalize()
	messages, total, err := s.messages.ListForUser(ctx, actorID, container, page.PageSize, page.Offset())
	if err != nil {
		return empty, err
	}

	return pagination.New(messages, total, page), nil
}

// Thread retrieves the full conversation between the actor and another
// member, as visible to the actor, newest first.
func (s *MessageService) Thread(ctx context.Context, actorID, otherID int64) ([]*models.Message, error) {
	return s.messages.Thread(ctx, actorID, otherID)
}

// MarkRead marks a message as read. Only the recipient may do this;
// re-marking an already-read message is a no-op and the original read
// time is kept.
func (s *MessageService) MarkRead(ctx context.Context, actorID, id int64) error {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if message.RecipientID != actorID {
		return fmt.Errorf("user %d is not the recipient of message %d: %w", actorID, id, apperr.ErrUnauthorized)
	}

	if message.IsRead {
		return nil
	}

	return s.messages.MarkRead(ctx, id, time.Now())
}

// Delete hides a message from the actor's view. The row survives until
// both parties have deleted it, then it is purged for good. The store
// decides the flags against the current row state, so the read here
// only serves the authorization check.
func (s *MessageService) Delete(ctx context.Context, actorID, id int64) error {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("message %d is already removed: %w", id, apperr.ErrInvalidOperation)
		}
		return err
	}

	if message.SenderID != actorID && message.RecipientID != actorID {
		return fmt.Errorf("message %d does not involve user %d: %w", id, actorID, apperr.ErrUnauthorized)
	}

	return s.messages.DeleteForUser(ctx, id, actorID)
}

// Containers re-exported for callers of ListForUser.
const (
	ContainerInbox  = repository.ContainerInbox
	ContainerOutbox = repository.ContainerOutbox
	ContainerUnread = repository.ContainerUnread
)
