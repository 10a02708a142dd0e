package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Message containers: named subsets of a user's messages.
const (
	ContainerInbox  = "Inbox"
	ContainerOutbox = "Outbox"
	ContainerUnread = "Unread"
)

const messageColumns = `id, sender_id, recipient_id, content, sent_at, read_at, is_read, sender_deleted, recipient_deleted`

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, recipient_id, content, sent_at, is_read, sender_deleted, recipient_deleted)
		VALUES ($1, $2, $3, $4, false, false, false)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		message.SenderID, message.RecipientID, message.Content, message.SentAt,
	).Scan(&message.ID)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	message, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return message, nil
}

// ListForUser retrieves one container of a user's messages ordered by
// sent time descending, with the total count of the container.
func (r *MessageRepository) ListForUser(ctx context.Context, userID int64, container string, limit, offset int) ([]*models.Message, int, error) {
	var where string
	switch container {
	case ContainerInbox:
		where = `WHERE recipient_id = $1 AND NOT recipient_deleted`
	case ContainerOutbox:
		where = `WHERE sender_id = $1 AND NOT sender_deleted`
	default:
		where = `WHERE recipient_id = $1 AND NOT is_read AND NOT recipient_deleted`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages `+where, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := `SELECT ` + messageColumns + ` FROM messages ` + where + `
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages, err := collectMessages(rows)
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// Thread retrieves the full conversation between two users as seen by
// the first: messages either sent by them and not sender-deleted, or
// received by them and not recipient-deleted. Sent time descending.
func (r *MessageRepository) Thread(ctx context.Context, userID, otherID int64) ([]*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2 AND NOT sender_deleted)
		   OR (sender_id = $2 AND recipient_id = $1 AND NOT recipient_deleted)
		ORDER BY sent_at DESC`
	rows, err := r.db.Query(ctx, query, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message thread: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// MarkRead stamps a message as read. Already-read messages keep their
// original read time.
func (r *MessageRepository) MarkRead(ctx context.Context, id int64, readAt time.Time) error {
	query := `UPDATE messages SET is_read = true, read_at = $1 WHERE id = $2 AND NOT is_read`
	if _, err := r.db.Exec(ctx, query, readAt, id); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

// DeleteForUser hides a message from one party's view. The flag
// decision happens inside the UPDATE itself, against the current row
// state, so concurrent deletes from both parties each land their own
// flag instead of overwriting each other's. Once both flags are set
// the row is purged in the same transaction.
func (r *MessageRepository) DeleteForUser(ctx context.Context, id, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE messages
		SET sender_deleted = sender_deleted OR sender_id = $2,
		    recipient_deleted = recipient_deleted OR recipient_id = $2
		WHERE id = $1
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update message delete flags: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM messages WHERE id = $1 AND sender_deleted AND recipient_deleted`,
		id,
	); err != nil {
		return fmt.Errorf("failed to purge message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit message delete: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var message models.Message
	err := row.Scan(
		&message.ID, &message.SenderID, &message.RecipientID, &message.Content,
		&message.SentAt, &message.ReadAt, &message.IsRead,
		&message.SenderDeleted, &message.RecipientDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func collectMessages(rows pgx.Rows) ([]*models.Message, error) {
	var messages []*models.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
