package models

import "time"

// Reply is a response within a thread. Soft-deleted replies stay in
// storage but are hidden and excluded from the parent's ReplyCount.
// At most one reply per thread carries IsAnswer.
type Reply struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ThreadID uint   `gorm:"not null;index" json:"thread_id"`
	Thread   Thread `gorm:"foreignKey:ThreadID" json:"-"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	Content  string `gorm:"type:text;not null" json:"content"`

	IsDeleted bool `gorm:"not null;default:false" json:"is_deleted"`
	IsAnswer  bool `gorm:"not null;default:false" json:"is_answer"`

	LikeCount int `gorm:"not null;default:0" json:"like_count"`

	// Liked indicates whether the requesting user liked this reply (computed).
	Liked bool `gorm:"-" json:"liked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
