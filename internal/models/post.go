package models

import (
	"time"
)

// MaxPostContentLength is the upper bound on post content, in characters.
const MaxPostContentLength = 600

// Post is a short text entry. UserID is nullable so a post can exist without an author reference.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"size:600;not null" json:"content"`
	UserID  *uint  `gorm:"index" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	// CreatedAt is set once on insert and never updated.
	CreatedAt time.Time `gorm:"index;<-:create" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author is the author's username, computed at query time.
	Author string `gorm:"->;-:migration" json:"author"`
	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->;-:migration" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->;-:migration" json:"liked"`
}

// AuthoredBy reports whether userID is the post's author.
func (p *Post) AuthoredBy(userID uint) bool {
	return p.UserID != nil && *p.UserID == userID
}

// PostLike is the liker join entity: one row per (post, user) in the liked state.
type PostLike struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (PostLike) TableName() string {
	return "post_likers"
}
