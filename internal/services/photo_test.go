package services

import (
	"context"
	"errors"
	"testing"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPhotoFixture(t *testing.T) (*PhotoService, *fakePhotoStore, *fakeAssetStore) {
	t.Helper()
	users := newFakeUserStore()
	users.add(member(5, "eve", models.GenderFemale, 27))
	photos := newFakePhotoStore()
	assets := &fakeAssetStore{}
	return NewPhotoService(photos, users, assets), photos, assets
}

func TestAddFirstPhotoBecomesMain(t *testing.T) {
	ctx := context.Background()
	svc, photos, _ := newPhotoFixture(t)

	first, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "at the beach")
	require.NoError(t, err)
	assert.True(t, first.IsMain)
	require.NotNil(t, first.PublicID)

	second, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)
	assert.False(t, second.IsMain)

	stored, err := photos.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsMain, "first photo keeps the main flag")
	assert.Equal(t, 1, photos.mainCount(5))
}

func TestAddPhotoUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPhotoFixture(t)

	_, err := svc.Add(ctx, 99, []byte("jpeg"), "image/jpeg", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddPhotoUploadFailure(t *testing.T) {
	ctx := context.Background()
	svc, photos, assets := newPhotoFixture(t)
	assets.uploadErr = errors.New("bucket unreachable")

	_, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	assert.ErrorIs(t, err, apperr.ErrExternalFailure)
	assert.Empty(t, photos.photos, "no record without a stored asset")
}

func TestSetMainSwapsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	svc, photos, _ := newPhotoFixture(t)

	first, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)
	second, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)

	require.NoError(t, svc.SetMain(ctx, 5, second.ID))

	assert.Equal(t, 1, photos.mainCount(5))
	swapped, err := photos.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, swapped.IsMain)
}

func TestSetMainAlreadyMain(t *testing.T) {
	ctx := context.Background()
	svc, photos, _ := newPhotoFixture(t)

	first, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)

	err = svc.SetMain(ctx, 5, first.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, 1, photos.mainCount(5))
}

func TestSetMainNotOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPhotoFixture(t)

	first, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)

	err = svc.SetMain(ctx, 6, first.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestDeleteMainPhotoRefused(t *testing.T) {
	ctx := context.Background()
	svc, photos, _ := newPhotoFixture(t)

	first, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)

	err = svc.Delete(ctx, 5, first.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)
	assert.Len(t, photos.photos, 1)
}

func TestDeletePhotoPromotedToMainMidFlight(t *testing.T) {
	ctx := context.Background()
	svc, photos, assets := newPhotoFixture(t)

	first, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)
	second, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)

	// a concurrent set-main promotes the target between the service's
	// check and the store's delete; the store re-checks and refuses
	photos.beforeDelete = func() {
		require.NoError(t, photos.SetMain(ctx, 5, second.ID))
	}
	err = svc.Delete(ctx, 5, second.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)

	assert.Len(t, photos.photos, 2, "no photo removed")
	assert.Equal(t, 1, photos.mainCount(5))
	demoted, err := photos.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsMain)

	// the remote asset was already released before the refusal
	assert.Equal(t, []string{*second.PublicID}, assets.destroyed)
}

func TestDeleteReleasesRemoteAssetFirst(t *testing.T) {
	ctx := context.Background()
	svc, photos, assets := newPhotoFixture(t)

	_, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)
	second, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 5, second.ID))
	assert.Equal(t, []string{*second.PublicID}, assets.destroyed)
	assert.Len(t, photos.photos, 1)
}

func TestDeleteKeepsRecordWhenDestroyFails(t *testing.T) {
	ctx := context.Background()
	svc, photos, assets := newPhotoFixture(t)

	_, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)
	second, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)

	assets.destroyErr = errors.New("bucket unreachable")
	err = svc.Delete(ctx, 5, second.ID)
	assert.ErrorIs(t, err, apperr.ErrExternalFailure)
	assert.Len(t, photos.photos, 2, "local record survives a failed remote release")
}

func TestDeletePlaceholderPhotoSkipsRemote(t *testing.T) {
	ctx := context.Background()
	svc, photos, assets := newPhotoFixture(t)

	_, err := svc.Add(ctx, 5, []byte("jpeg"), "image/jpeg", "")
	require.NoError(t, err)

	// seeded placeholder: no remote asset behind the URL
	placeholder := &models.Photo{UserID: 5, URL: "https://placeholder.example.com/p.jpg"}
	require.NoError(t, photos.Insert(ctx, placeholder))

	require.NoError(t, svc.Delete(ctx, 5, placeholder.ID))
	assert.Empty(t, assets.destroyed)
}
