package services

import (
	"context"
	"fmt"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"
)

// PhotoService handles the photo collection of a member. Every member
// with at least one photo has exactly one main photo; all mutation
// paths go through this service to keep that invariant.
type PhotoService struct {
	photos PhotoStore
	users  UserStore
	assets AssetStore
}

// NewPhotoService creates a new photo service
func NewPhotoService(photos PhotoStore, users UserStore, assets AssetStore) *PhotoService {
	return &PhotoService{
		photos: photos,
		users:  users,
		assets: assets,
	}
}

// Add uploads the photo bytes to the asset store and appends the photo
// to the actor's collection. A member's first photo becomes their main
// photo regardless of the request.
func (s *PhotoService) Add(ctx context.Context, actorID int64, data []byte, contentType, description string) (*models.Photo, error) {
	exists, err := s.users.Exists(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", actorID, apperr.ErrNotFound)
	}

	url, publicID, err := s.assets.Upload(ctx, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("asset upload failed: %w", apperr.ErrExternalFailure)
	}

	photo := &models.Photo{
		UserID:      actorID,
		URL:         url,
		PublicID:    &publicID,
		Description: description,
		AddedAt:     time.Now(),
	}

	if err := s.photos.Insert(ctx, photo); err != nil {
		return nil, err
	}

	return photo, nil
}

// Get retrieves a photo by ID
func (s *PhotoService) Get(ctx context.Context, id int64) (*models.Photo, error) {
	return s.photos.GetByID(ctx, id)
}

// SetMain makes the given photo the actor's main photo. The previous
// main photo loses the flag in the same transaction. Setting the
// current main photo again is a conflict.
func (s *PhotoService) SetMain(ctx context.Context, actorID, photoID int64) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}

	if photo.UserID != actorID {
		return fmt.Errorf("photo %d does not belong to user %d: %w", photoID, actorID, apperr.ErrUnauthorized)
	}

	if photo.IsMain {
		return fmt.Errorf("photo %d is already the main photo: %w", photoID, apperr.ErrConflict)
	}

	return s.photos.SetMain(ctx, actorID, photoID)
}

// Delete removes a photo from the actor's collection. The main photo
// cannot be deleted. When the photo has a remote asset, the asset is
// released first; if that fails the local record stays. The store
// re-checks the main flag under the owner's lock, so a photo promoted
// to main after the check here is still refused, with the remote asset
// already released by then.
func (s *PhotoService) Delete(ctx context.Context, actorID, photoID int64) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}

	if photo.UserID != actorID {
		return fmt.Errorf("photo %d does not belong to user %d: %w", photoID, actorID, apperr.ErrUnauthorized)
	}

	if photo.IsMain {
		return fmt.Errorf("cannot delete the main photo: %w", apperr.ErrInvalidOperation)
	}

	if photo.PublicID != nil {
		if err := s.assets.Destroy(ctx, *photo.PublicID); err != nil {
			return fmt.Errorf("asset release failed: %w", apperr.ErrExternalFailure)
		}
	}

	return s.photos.Delete(ctx, actorID, photoID)
}
