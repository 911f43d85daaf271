package models

import "time"

// Category is a top-level forum section.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Slug        string    `gorm:"size:100;unique;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// ThreadCount is computed at query time for category listings.
	ThreadCount int64 `gorm:"-" json:"thread_count"`
}

// Tag is a free-form label attached to threads.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;unique;not null" json:"name"`
	Slug      string    `gorm:"size:50;unique;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
