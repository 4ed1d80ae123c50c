package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt digest and never leaves the service boundary.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the projection returned by list, create, update and delete.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is the projection returned by lookup by id.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfilePatch carries optional profile changes; nil fields keep their stored value.
type ProfilePatch struct {
	Name  *string
	Email *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Email == nil
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u *User) Profile() Profile {
	return Profile{Name: u.Name, Email: u.Email}
}
