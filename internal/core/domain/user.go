package domain

import "time"

// User models an account and the credential state attached to it.
//
// RefreshToken is single-valued: a login overwrites whatever token was
// issued before, so a second device silently invalidates the first one.
// ResetToken is single use and only meaningful while ResetExpiry is in
// the future.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	RefreshToken string    `json:"-"`
	ResetToken   string    `json:"-"`
	ResetExpiry  time.Time `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the public projection of a User. The password hash and the
// token fields never leave the server.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the sanitized view of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// HasValidResetToken reports whether the stored reset token matches and is
// still inside its expiry window.
func (u *User) HasValidResetToken(token string, now time.Time) bool {
	return u.ResetToken != "" && u.ResetToken == token && now.Before(u.ResetExpiry)
}
