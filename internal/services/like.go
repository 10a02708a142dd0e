package services

import (
	"context"
	"fmt"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"
)

// LikeService handles the directed like graph between members.
type LikeService struct {
	likes LikeStore
	users UserStore
}

// NewLikeService creates a new like service
func NewLikeService(likes LikeStore, users UserStore) *LikeService {
	return &LikeService{
		likes: likes,
		users: users,
	}
}

// Like records that the actor likes the recipient. The edge is
// one-directional; mutual interest needs a like from each side. The
// recipient must exist, self-likes are rejected, and liking the same
// member twice is a conflict.
func (s *LikeService) Like(ctx context.Context, actorID, recipientID int64) (*models.Like, error) {
	exists, err := s.users.Exists(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check recipient: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", recipientID, apperr.ErrNotFound)
	}

	if actorID == recipientID {
		return nil, fmt.Errorf("cannot like yourself: %w", apperr.ErrInvalidOperation)
	}

	liked, err := s.likes.Exists(ctx, actorID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check like: %w", err)
	}
	if liked {
		return nil, fmt.Errorf("already liked user %d: %w", recipientID, apperr.ErrConflict)
	}

	like := &models.Like{
		LikerID:   actorID,
		LikeeID:   recipientID,
		CreatedAt: time.Now(),
	}

	if err := s.likes.Create(ctx, like); err != nil {
		return nil, err
	}

	return like, nil
}

// LikerIDs returns the ids of members who have liked the given member
func (s *LikeService) LikerIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.likes.LikerIDs(ctx, userID)
}

// LikeeIDs returns the ids of members the given member has liked
func (s *LikeService) LikeeIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.likes.LikeeIDs(ctx, userID)
}
