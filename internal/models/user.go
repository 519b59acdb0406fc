// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// DefaultAvatar is the image reference every new profile starts with.
const DefaultAvatar = "default.jpg"

// User is an account in the identity store. The password column holds a bcrypt hash.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string    `gorm:"size:254" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Profile   *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the one-to-one extension of a User holding the avatar reference.
type Profile struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Image  string `gorm:"size:255;not null;default:'default.jpg'" json:"image"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// UserSummary is the public projection of a user used in follower lists.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
