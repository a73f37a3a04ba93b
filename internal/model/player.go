package model

import (
	"regexp"
	"time"
)

// UserID uniquely identifies a user across the system
type UserID string

// User is an authenticated identity as seen by the game and media services
type User struct {
	ID          UserID
	DisplayName string
	Username    string // empty for guests
	IsGuest     bool   // true for unregistered users
	CreatedAt   time.Time
}

// RegisteredUser extends User with authentication data
// Stored separately so the password hash never travels with a session
type RegisteredUser struct {
	UserID       UserID
	Username     string // login username (immutable, lower-cased)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// usernamePattern allows single underscores between letter/digit runs so a
// username maps to exactly one media bucket slug
var usernamePattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// ValidUsername reports whether a lower-cased login name is 3-32 characters
// of letters and digits, optionally joined by single underscores
func ValidUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 32 && usernamePattern.MatchString(username)
}
