package models

import "time"

// Gender values stored on a user profile
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// User represents a member of the site
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	Gender       string    `json:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	KnownAs      string    `json:"known_as"`
	Introduction string    `json:"introduction"`
	LookingFor   string    `json:"looking_for"`
	Interests    string    `json:"interests"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Created      time.Time `json:"created"`
	LastActive   time.Time `json:"last_active"`
	Photos       []Photo   `json:"photos,omitempty"`
}

// Age returns the user's age in whole years as of today.
func (u *User) Age() int {
	now := time.Now()
	age := now.Year() - u.DateOfBirth.Year()
	if now.YearDay() < u.DateOfBirth.YearDay() {
		age--
	}
	return age
}

// Photo represents a profile photo owned by a user.
// PublicID is the remote asset key; nil means there is no remote
// asset to release (e.g. a seeded placeholder URL).
type Photo struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	URL         string    `json:"url"`
	PublicID    *string   `json:"public_id,omitempty"`
	IsMain      bool      `json:"is_main"`
	Description string    `json:"description"`
	AddedAt     time.Time `json:"added_at"`
}

// Like is a directed edge meaning "liker expressed interest in likee".
// Mutual interest is two independent edges, one per direction.
type Like struct {
	LikerID   int64     `json:"liker_id"`
	LikeeID   int64     `json:"likee_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a private message between two users. Each party can hide
// the message from their own view independently; the row is removed
// only once both delete flags are set.
type Message struct {
	ID               int64      `json:"id"`
	SenderID         int64      `json:"sender_id"`
	RecipientID      int64      `json:"recipient_id"`
	Content          string     `json:"content"`
	SentAt           time.Time  `json:"sent_at"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	IsRead           bool       `json:"is_read"`
	SenderDeleted    bool       `json:"-"`
	RecipientDeleted bool       `json:"-"`
}
