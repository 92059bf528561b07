package domain

import "time"

// User represents a user in the system. PasswordHash is nil for accounts
// created through Google sign-in that never set a local password.
type User struct {
	ID               string    `json:"id" db:"id"`
	Username         string    `json:"username" db:"username"`
	Fullname         string    `json:"fullname" db:"fullname"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     *string   `json:"-" db:"password_hash"`
	AvatarURL        string    `json:"avatar" db:"avatar_url"`
	AvatarObjectKey  string    `json:"-" db:"avatar_object_key"`
	GoogleID         *string   `json:"-" db:"google_id"`
	RefreshTokenHash *string   `json:"-" db:"refresh_token_hash"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Sanitized returns a copy with credential and token material stripped,
// in addition to the JSON tags already hiding those fields.
func (u User) Sanitized() User {
	u.PasswordHash = nil
	u.RefreshTokenHash = nil
	return u
}

// HasPassword reports whether the account can authenticate locally.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
