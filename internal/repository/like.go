package repository

import (
	"context"
	"errors"
	"fmt"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code raised when an insert hits
// a unique constraint, here the (liker_id, likee_id) pair.
const uniqueViolation = "23505"

// LikeRepository handles database operations for like edges
type LikeRepository struct {
	db *pgxpool.Pool
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a directed like edge. A duplicate edge for the same
// ordered pair is reported as a conflict; the storage constraint keeps
// concurrent identical inserts from producing two edges.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (liker_id, likee_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, like.LikerID, like.LikeeID, like.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("like %d -> %d already exists: %w", like.LikerID, like.LikeeID, apperr.ErrConflict)
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Exists checks whether a like edge exists for the ordered pair
func (r *LikeRepository) Exists(ctx context.Context, likerID, likeeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE liker_id = $1 AND likee_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, likerID, likeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return exists, nil
}

// LikerIDs returns the ids of users who have liked the given user
func (r *LikeRepository) LikerIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.edgeIDs(ctx, `SELECT liker_id FROM likes WHERE likee_id = $1`, userID)
}

// LikeeIDs returns the ids of users the given user has liked
func (r *LikeRepository) LikeeIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.edgeIDs(ctx, `SELECT likee_id FROM likes WHERE liker_id = $1`, userID)
}

func (r *LikeRepository) edgeIDs(ctx context.Context, query string, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating likes: %w", err)
	}

	return ids, nil
}
