// Package models contains data structures for the forum's domain entities.
package models

import "time"

// Role is the authorization level attached to a user account.
type Role string

const (
	RoleStudent   Role = "student"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// User represents a StudyDeck account. Accounts are keyed by email;
// the username is the handle used in @mentions.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:150;unique;not null" json:"username"`
	Email      string    `gorm:"size:254;unique;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	Role       Role      `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	Bio        string    `gorm:"type:text" json:"bio,omitempty"`
	Department string    `gorm:"size:100" json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsModerator reports whether the user holds moderation privileges.
// Admins are moderators too.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
