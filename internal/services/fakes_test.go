package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"
	"dating-backend/internal/repository"
)

// In-memory stores mirroring the repository contracts, used in place
// of the pgx repositories.

type fakeUserStore struct {
	users      map[int64]*models.User
	nextID     int64
	lastFilter repository.UserFilter
	listResult []*models.User
	listTotal  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) add(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	} else if user.ID >= f.nextID {
		f.nextID = user.ID + 1
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	return user, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
}

func (f *fakeUserStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) List(_ context.Context, filter repository.UserFilter) ([]*models.User, int, error) {
	f.lastFilter = filter
	if f.listResult != nil {
		return f.listResult, f.listTotal, nil
	}

	var matched []*models.User
	for _, user := range f.users {
		if user.ID == filter.ExcludeID {
			continue
		}
		if filter.Gender != "" && user.Gender != filter.Gender {
			continue
		}
		if !filter.MinDob.IsZero() && user.DateOfBirth.Before(filter.MinDob) {
			continue
		}
		if !filter.MaxDob.IsZero() && user.DateOfBirth.After(filter.MaxDob) {
			continue
		}
		if filter.FilterIDs && !containsID(filter.IDs, user.ID) {
			continue
		}
		matched = append(matched, user)
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.OrderBy == repository.OrderByCreated {
			return matched[i].Created.After(matched[j].Created)
		}
		return matched[i].LastActive.After(matched[j].LastActive)
	})

	total := len(matched)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("user %d: %w", user.ID, apperr.ErrNotFound)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateLastActive(_ context.Context, id int64, t time.Time) error {
	if user, ok := f.users[id]; ok {
		user.LastActive = t
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type edge struct{ liker, likee int64 }

type fakeLikeStore struct {
	edges map[edge]models.Like
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{edges: make(map[edge]models.Like)}
}

func (f *fakeLikeStore) Create(_ context.Context, like *models.Like) error {
	key := edge{like.LikerID, like.LikeeID}
	if _, ok := f.edges[key]; ok {
		return fmt.Errorf("like exists: %w", apperr.ErrConflict)
	}
	f.edges[key] = *like
	return nil
}

func (f *fakeLikeStore) Exists(_ context.Context, likerID, likeeID int64) (bool, error) {
	_, ok := f.edges[edge{likerID, likeeID}]
	return ok, nil
}

func (f *fakeLikeStore) LikerIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for key := range f.edges {
		if key.likee == userID {
			ids = append(ids, key.liker)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeLikeStore) LikeeIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for key := range f.edges {
		if key.liker == userID {
			ids = append(ids, key.likee)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakePhotoStore struct {
	photos map[int64]*models.Photo
	nextID int64

	// beforeDelete, when set, runs inside Delete before the main-flag
	// check, standing in for a concurrent request that commits first.
	beforeDelete func()
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{photos: make(map[int64]*models.Photo), nextID: 1}
}

func (f *fakePhotoStore) Insert(_ context.Context, photo *models.Photo) error {
	if !f.hasMain(photo.UserID) {
		photo.IsMain = true
	}
	photo.ID = f.nextID
	f.nextID++
	copied := *photo
	f.photos[photo.ID] = &copied
	return nil
}

func (f *fakePhotoStore) GetByID(_ context.Context, id int64) (*models.Photo, error) {
	photo, ok := f.photos[id]
	if !ok {
		return nil, fmt.Errorf("photo %d: %w", id, apperr.ErrNotFound)
	}
	copied := *photo
	return &copied, nil
}

func (f *fakePhotoStore) SetMain(_ context.Context, userID, photoID int64) error {
	target, ok := f.photos[photoID]
	if !ok || target.UserID != userID {
		return fmt.Errorf("photo %d: %w", photoID, apperr.ErrNotFound)
	}
	for _, photo := range f.photos {
		if photo.UserID == userID {
			photo.IsMain = false
		}
	}
	target.IsMain = true
	return nil
}

func (f *fakePhotoStore) Delete(_ context.Context, userID, photoID int64) error {
	if hook := f.beforeDelete; hook != nil {
		f.beforeDelete = nil
		hook()
	}
	photo, ok := f.photos[photoID]
	if !ok || photo.UserID != userID {
		return fmt.Errorf("photo %d: %w", photoID, apperr.ErrNotFound)
	}
	if photo.IsMain {
		return fmt.Errorf("photo %d is the main photo: %w", photoID, apperr.ErrInvalidOperation)
	}
	delete(f.photos, photoID)
	return nil
}

func (f *fakePhotoStore) hasMain(userID int64) bool {
	for _, photo := range f.photos {
		if photo.UserID == userID && photo.IsMain {
			return true
		}
	}
	return false
}

func (f *fakePhotoStore) mainCount(userID int64) int {
	count := 0
	for _, photo := range f.photos {
		if photo.UserID == userID && photo.IsMain {
			count++
		}
	}
	return count
}

type fakeAssetStore struct {
	uploads    int
	destroyed  []string
	uploadErr  error
	destroyErr error
}

func (f *fakeAssetStore) Upload(_ context.Context, _ []byte, _ string) (string, string, error) {
	if f.uploadErr != nil {
		return "", "", f.uploadErr
	}
	f.uploads++
	key := fmt.Sprintf("photos/key-%d", f.uploads)
	return "https://assets.example.com/" + key, key, nil
}

func (f *fakeAssetStore) Destroy(_ context.Context, publicID string) error {
	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

type fakeMessageStore struct {
	messages map[int64]*models.Message
	nextID   int64

	// beforeDelete, when set, runs inside DeleteForUser before the flag
	// update, standing in for a concurrent request that commits first.
	beforeDelete func()
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: make(map[int64]*models.Message), nextID: 1}
}

func (f *fakeMessageStore) Create(_ context.Context, message *models.Message) error {
	message.ID = f.nextID
	f.nextID++
	copied := *message
	f.messages[message.ID] = &copied
	return nil
}

func (f *fakeMessageStore) GetByID(_ context.Context, id int64) (*models.Message, error) {
	message, ok := f.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}
	copied := *message
	return &copied, nil
}

func (f *fakeMessageStore) ListForUser(_ context.Context, userID int64, container string, limit, offset int) ([]*models.Message, int, error) {
	var matched []*models.Message
	for _, m := range f.messages {
		switch container {
		case repository.ContainerInbox:
			if m.RecipientID == userID && !m.RecipientDeleted {
				matched = append(matched, m)
			}
		case repository.ContainerOutbox:
			if m.SenderID == userID && !m.SenderDeleted {
				matched = append(matched, m)
			}
		default:
			if m.RecipientID == userID && !m.IsRead && !m.RecipientDeleted {
				matched = append(matched, m)
			}
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].SentAt.After(matched[j].SentAt) })

	total := len(matched)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeMessageStore) Thread(_ context.Context, userID, otherID int64) ([]*models.Message, error) {
	var matched []*models.Message
	for _, m := range f.messages {
		fromUser := m.SenderID == userID && m.RecipientID == otherID && !m.SenderDeleted
		toUser := m.SenderID == otherID && m.RecipientID == userID && !m.RecipientDeleted
		if fromUser || toUser {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].SentAt.After(matched[j].SentAt) })
	return matched, nil
}

func (f *fakeMessageStore) MarkRead(_ context.Context, id int64, readAt time.Time) error {
	message, ok := f.messages[id]
	if !ok {
		return fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}
	if !message.IsRead {
		message.IsRead = true
		message.ReadAt = &readAt
	}
	return nil
}

func (f *fakeMessageStore) DeleteForUser(_ context.Context, id, userID int64) error {
	if hook := f.beforeDelete; hook != nil {
		f.beforeDelete = nil
		hook()
	}
	message, ok := f.messages[id]
	if !ok {
		return fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}
	message.SenderDeleted = message.SenderDeleted || message.SenderID == userID
	message.RecipientDeleted = message.RecipientDeleted || message.RecipientID == userID
	if message.SenderDeleted && message.RecipientDeleted {
		delete(f.messages, id)
	}
	return nil
}
