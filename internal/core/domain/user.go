package domain

import "time"

// UserStatus represents the lifecycle state of an account.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusDisabled UserStatus = "disabled"
)

// Field length bounds enforced at registration time.
const (
	MinUsernameLen    = 3
	MaxUsernameLen    = 32
	MaxEmailLen       = 254
	MaxDisplayNameLen = 64
	MaxPhoneNumberLen = 32
	MaxBioLen         = 500
	MinPasswordLen    = 8
)

// User models a registered account. PasswordHash is never serialized.
type User struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	DisplayName       string     `json:"display_name"`
	PhoneNumber       string     `json:"phone_number,omitempty"`
	PasswordHash      string     `json:"-"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
	Bio               string     `json:"bio,omitempty"`
	Status            UserStatus `json:"status"`
	LastSeen          *time.Time `json:"last_seen,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool {
	return u.Status == StatusActive
}
