package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ordering keys accepted by UserFilter.OrderBy.
const (
	OrderByLastActive = "lastActive"
	OrderByCreated    = "created"
)

// UserFilter describes a directory listing: which users to include and
// how to order them. The filter is applied before pagination so the
// total count matches the filtered set.
type UserFilter struct {
	ExcludeID int64
	Gender    string
	MinDob    time.Time // zero value skips the date-of-birth range
	MaxDob    time.Time
	IDs       []int64 // candidate set restriction (likers/likees)
	FilterIDs bool    // apply IDs even when the slice is empty
	OrderBy   string
	Limit     int
	Offset    int
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, gender, date_of_birth, known_as, city, country, created, last_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Gender, user.DateOfBirth,
		user.KnownAs, user.City, user.Country, user.Created, user.LastActive,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID together with their photo collection,
// main photo first.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, gender, date_of_birth, known_as,
		       introduction, looking_for, interests, city, country, created, last_active
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Gender, &user.DateOfBirth,
		&user.KnownAs, &user.Introduction, &user.LookingFor, &user.Interests,
		&user.City, &user.Country, &user.Created, &user.LastActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	photos, err := r.photosForUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Photos = photos

	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, gender, date_of_birth, known_as,
		       introduction, looking_for, interests, city, country, created, last_active
		FROM users
		WHERE username = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Gender, &user.DateOfBirth,
		&user.KnownAs, &user.Introduction, &user.LookingFor, &user.Interests,
		&user.City, &user.Country, &user.Created, &user.LastActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// Exists checks whether a user with the given ID exists
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// UsernameExists checks whether a username is already taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// List retrieves users matching the filter, with the total count of the
// filtered set. Each returned user carries their main photo, if any.
func (r *UserRepository) List(ctx context.Context, filter UserFilter) ([]*models.User, int, error) {
	where, args := buildUserWhere(filter)

	countQuery := `SELECT COUNT(*) FROM users u ` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	orderBy := "u.last_active DESC"
	if filter.OrderBy == OrderByCreated {
		orderBy = "u.created DESC"
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.username, u.gender, u.date_of_birth, u.known_as,
		       u.city, u.country, u.created, u.last_active,
		       p.id, p.url, p.description, p.added_at
		FROM users u
		LEFT JOIN photos p ON p.user_id = u.id AND p.is_main
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		var photoID *int64
		var photoURL, photoDesc *string
		var photoAdded *time.Time
		err := rows.Scan(
			&user.ID, &user.Username, &user.Gender, &user.DateOfBirth, &user.KnownAs,
			&user.City, &user.Country, &user.Created, &user.LastActive,
			&photoID, &photoURL, &photoDesc, &photoAdded,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		if photoID != nil {
			user.Photos = []models.Photo{{
				ID:          *photoID,
				UserID:      user.ID,
				URL:         *photoURL,
				IsMain:      true,
				Description: *photoDesc,
				AddedAt:     *photoAdded,
			}}
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	return users, total, nil
}

// buildUserWhere assembles the WHERE clause for List from the filter.
func buildUserWhere(filter UserFilter) (string, []any) {
	conds := []string{"u.id <> $1"}
	args := []any{filter.ExcludeID}

	if filter.Gender != "" {
		args = append(args, filter.Gender)
		conds = append(conds, fmt.Sprintf("u.gender = $%d", len(args)))
	}
	if !filter.MinDob.IsZero() {
		args = append(args, filter.MinDob)
		conds = append(conds, fmt.Sprintf("u.date_of_birth >= $%d", len(args)))
	}
	if !filter.MaxDob.IsZero() {
		args = append(args, filter.MaxDob)
		conds = append(conds, fmt.Sprintf("u.date_of_birth <= $%d", len(args)))
	}
	if filter.FilterIDs {
		args = append(args, filter.IDs)
		conds = append(conds, fmt.Sprintf("u.id = ANY($%d)", len(args)))
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// UpdateProfile updates the editable profile fields of a user
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET known_as = $1, introduction = $2, looking_for = $3, interests = $4, city = $5, country = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		user.KnownAs, user.Introduction, user.LookingFor, user.Interests,
		user.City, user.Country, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", user.ID, apperr.ErrNotFound)
	}
	return nil
}

// UpdateLastActive stamps the user's last-active time
func (r *UserRepository) UpdateLastActive(ctx context.Context, id int64, t time.Time) error {
	query := `UPDATE users SET last_active = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, t, id); err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}
	return nil
}

func (r *UserRepository) photosForUser(ctx context.Context, userID int64) ([]models.Photo, error) {
	query := `
		SELECT id, user_id, url, public_id, is_main, description, added_at
		FROM photos
		WHERE user_id = $1
		ORDER BY is_main DESC, added_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos for user: %w", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.UserID, &photo.URL, &photo.PublicID,
			&photo.IsMain, &photo.Description, &photo.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}
