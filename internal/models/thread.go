package models

import "time"

// Thread is the main discussion unit. LikeCount and ReplyCount are
// persisted engagement counters maintained by atomic increments;
// ReplyCount tracks only non-soft-deleted replies.
type Thread struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	CategoryID uint     `gorm:"not null;index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`
	CourseID   *uint    `gorm:"index" json:"course_id,omitempty"`
	Course     *Course  `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	AuthorID   uint     `gorm:"not null;index" json:"author_id"`
	Author     User     `gorm:"foreignKey:AuthorID" json:"author"`
	Title      string   `gorm:"size:200;not null" json:"title"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	Tags       []Tag    `gorm:"many2many:thread_tags" json:"tags"`

	// Moderation state. Lock and pin are independent axes.
	IsLocked bool `gorm:"not null;default:false" json:"is_locked"`
	IsPinned bool `gorm:"not null;default:false" json:"is_pinned"`

	// Engagement counters.
	LikeCount  int `gorm:"not null;default:0" json:"like_count"`
	ReplyCount int `gorm:"not null;default:0" json:"reply_count"`

	// Liked indicates whether the requesting user liked this thread (computed).
	Liked bool `gorm:"-" json:"liked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
