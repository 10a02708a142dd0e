package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"
	"dating-backend/internal/pagination"
	"dating-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Default age bounds for the directory query. When both are left at
// their defaults the date-of-birth filter is skipped entirely, so
// members with odd or missing birthdates still show up.
const (
	defaultMinAge = 18
	defaultMaxAge = 99

	jwtExpDays = 7
)

// UserService handles registration, authentication and the member
// directory query.
type UserService struct {
	users     UserStore
	likes     LikeStore
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(users UserStore, likes LikeStore, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		likes:     likes,
		jwtSecret: jwtSecret,
	}
}

// RegisterRequest represents a request to register a new member
type RegisterRequest struct {
	Username    string    `json:"username" validate:"required,min=3,max=30"`
	Password    string    `json:"password" validate:"required,min=4,max=64"`
	Gender      string    `json:"gender" validate:"required,oneof=male female"`
	DateOfBirth time.Time `json:"date_of_birth" validate:"required"`
	KnownAs     string    `json:"known_as" validate:"required"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
}

// Register creates a new member with a hashed password
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	username := strings.ToLower(req.Username)

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("username %q is taken: %w", username, apperr.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		KnownAs:      req.KnownAs,
		City:         req.City,
		Country:      req.Country,
		Created:      now,
		LastActive:   now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a JWT for the member
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	// numeric claims come back as float64 after JSON decoding
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("user_id not found in token")
	}

	return int64(userID), nil
}

// GetUser retrieves a member with their photo collection
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// TouchLastActive stamps the member's last-active time to now
func (s *UserService) TouchLastActive(ctx context.Context, id int64) error {
	return s.users.UpdateLastActive(ctx, id, time.Now())
}

// DiscoverParams are the directory query filters. Zero values fall
// back to the defaults: the opposite of the requester's gender, ages
// 18 through 99 and last-active ordering.
type DiscoverParams struct {
	Gender  string
	MinAge  int
	MaxAge  int
	Likers  bool
	Likees  bool
	OrderBy string
	Page    pagination.Params
}

// Discover lists candidate members for the requester: everyone of the
// requested gender in the requested age range, minus the requester,
// optionally restricted to who likes them or whom they like.
func (s *UserService) Discover(ctx context.Context, actorID int64, params DiscoverParams) (pagination.Page[*models.User], error) {
	var empty pagination.Page[*models.User]

	requester, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return empty, fmt.Errorf("failed to get requester: %w", err)
	}

	gender := params.Gender
	if gender == "" {
		gender = models.GenderFemale
		if requester.Gender == models.GenderFemale {
			gender = models.GenderMale
		}
	}

	minAge, maxAge := params.MinAge, params.MaxAge
	if minAge == 0 {
		minAge = defaultMinAge
	}
	if maxAge == 0 {
		maxAge = defaultMaxAge
	}

	filter := repository.UserFilter{
		ExcludeID: actorID,
		Gender:    gender,
		OrderBy:   params.OrderBy,
	}

	if minAge != defaultMinAge || maxAge != defaultMaxAge {
		today := time.Now().Truncate(24 * time.Hour)
		filter.MinDob = today.AddDate(-(maxAge + 1), 0, 0)
		filter.MaxDob = today.AddDate(-minAge, 0, 0)
	}

	if params.Likers {
		ids, err := s.likes.LikerIDs(ctx, actorID)
		if err != nil {
			return empty, fmt.Errorf("failed to get likers: %w", err)
		}
		filter.IDs = ids
		filter.FilterIDs = true
	}
	if params.Likees {
		ids, err := s.likes.LikeeIDs(ctx, actorID)
		if err != nil {
			return empty, fmt.Errorf("failed to get likees: %w", err)
		}
		if filter.FilterIDs {
			filter.IDs = intersect(filter.IDs, ids)
		} else {
			filter.IDs = ids
			filter.FilterIDs = true
		}
	}

	page := params.Page.Normalize()
	filter.Limit = page.PageSize
	filter.Offset = page.Offset()

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return empty, fmt.Errorf("failed to list users: %w", err)
	}

	return pagination.New(users, total, page), nil
}

// UpdateProfileRequest represents an update to the editable profile fields
type UpdateProfileRequest struct {
	KnownAs      string `json:"known_as" validate:"required"`
	Introduction string `json:"introduction"`
	LookingFor   string `json:"looking_for"`
	Interests    string `json:"interests"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// UpdateProfile updates a member's profile. Members can only edit
// their own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, userID int64, req UpdateProfileRequest) (*models.User, error) {
	if actorID != userID {
		return nil, fmt.Errorf("cannot edit another member's profile: %w", apperr.ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.KnownAs = req.KnownAs
	user.Introduction = req.Introduction
	user.LookingFor = req.LookingFor
	user.Interests = req.Interests
	user.City = req.City
	user.Country = req.Country

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func intersect(a, b []int64) []int64 {
	set := make(map[int64]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	result := make([]int64, 0, len(a))
	for _, id := range a {
		if _, ok := set[id]; ok {
			result = append(result, id)
		}
	}
	return result
}
