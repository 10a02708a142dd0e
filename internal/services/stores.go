package services

import (
	"context"
	"time"

	"dating-backend/internal/models"
	"dating-backend/internal/repository"
)

// Persistence interfaces consumed by the services. The repository
// package provides the pgx-backed implementations; tests substitute
// in-memory fakes.

// UserStore persists users and resolves directory listings.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, filter repository.UserFilter) ([]*models.User, int, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateLastActive(ctx context.Context, id int64, t time.Time) error
}

// LikeStore persists directed like edges.
type LikeStore interface {
	Create(ctx context.Context, like *models.Like) error
	Exists(ctx context.Context, likerID, likeeID int64) (bool, error)
	LikerIDs(ctx context.Context, userID int64) ([]int64, error)
	LikeeIDs(ctx context.Context, userID int64) ([]int64, error)
}

// PhotoStore persists photos and keeps the main-photo flag moves atomic.
type PhotoStore interface {
	Insert(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	SetMain(ctx context.Context, userID, photoID int64) error
	Delete(ctx context.Context, userID, photoID int64) error
}

// MessageStore persists messages and their per-party delete flags.
type MessageStore interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	ListForUser(ctx context.Context, userID int64, container string, limit, offset int) ([]*models.Message, int, error)
	Thread(ctx context.Context, userID, otherID int64) ([]*models.Message, error)
	MarkRead(ctx context.Context, id int64, readAt time.Time) error
	DeleteForUser(ctx context.Context, id, userID int64) error
}

// AssetStore is the remote object store holding photo files.
type AssetStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (url, publicID string, err error)
	Destroy(ctx context.Context, publicID string) error
}
