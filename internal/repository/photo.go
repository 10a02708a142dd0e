package repository

import (
	"context"
	"errors"
	"fmt"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoRepository handles database operations for photos. Mutations
// that touch the main flag run in a transaction holding the owner's
// user row lock, so a user's photo set never ends up with zero or two
// main photos under concurrent requests.
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Insert adds a photo to the owner's collection. The first photo of a
// user is promoted to main regardless of the caller's IsMain value.
func (r *PhotoRepository) Insert(ctx context.Context, photo *models.Photo) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockUser(ctx, tx, photo.UserID); err != nil {
		return err
	}

	var hasMain bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM photos WHERE user_id = $1 AND is_main)`,
		photo.UserID,
	).Scan(&hasMain)
	if err != nil {
		return fmt.Errorf("failed to check main photo: %w", err)
	}
	if !hasMain {
		photo.IsMain = true
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO photos (user_id, url, public_id, is_main, description, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, photo.UserID, photo.URL, photo.PublicID, photo.IsMain, photo.Description, photo.AddedAt,
	).Scan(&photo.ID)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit photo insert: %w", err)
	}
	return nil
}

// GetByID retrieves a photo by ID
func (r *PhotoRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	query := `
		SELECT id, user_id, url, public_id, is_main, description, added_at
		FROM photos
		WHERE id = $1
	`
	var photo models.Photo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&photo.ID, &photo.UserID, &photo.URL, &photo.PublicID,
		&photo.IsMain, &photo.Description, &photo.AddedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("photo %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &photo, nil
}

// SetMain atomically moves the main flag to the given photo: the
// current main photo loses the flag and the target gains it in one
// transaction.
func (r *PhotoRepository) SetMain(ctx context.Context, userID, photoID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockUser(ctx, tx, userID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE photos SET is_main = false WHERE user_id = $1 AND is_main`,
		userID,
	); err != nil {
		return fmt.Errorf("failed to clear main photo: %w", err)
	}

	result, err := tx.Exec(ctx,
		`UPDATE photos SET is_main = true WHERE id = $1 AND user_id = $2`,
		photoID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set main photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("photo %d: %w", photoID, apperr.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit main photo change: %w", err)
	}
	return nil
}

// Delete removes a photo from the owner's collection. The main flag is
// re-checked under the owner's lock: a photo promoted to main by a
// concurrent request between the caller's check and this delete is
// refused, not removed.
func (r *PhotoRepository) Delete(ctx context.Context, userID, photoID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockUser(ctx, tx, userID); err != nil {
		return err
	}

	var isMain bool
	err = tx.QueryRow(ctx,
		`SELECT is_main FROM photos WHERE id = $1 AND user_id = $2`,
		photoID, userID,
	).Scan(&isMain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("photo %d: %w", photoID, apperr.ErrNotFound)
		}
		return fmt.Errorf("failed to get photo: %w", err)
	}
	if isMain {
		return fmt.Errorf("photo %d is the main photo: %w", photoID, apperr.ErrInvalidOperation)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM photos WHERE id = $1`, photoID); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit photo delete: %w", err)
	}
	return nil
}

// lockUser takes the owner's row lock to serialize photo mutations for
// that user within the surrounding transaction.
func lockUser(ctx context.Context, tx pgx.Tx, userID int64) error {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
		}
		return fmt.Errorf("failed to lock user: %w", err)
	}
	return nil
}
