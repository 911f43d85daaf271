package models

import "time"

// Course is a catalogue entry threads may be associated with.
type Course struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"size:20;unique;not null" json:"code"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	Department string    `gorm:"size:100;not null" json:"department"`
	Semester   int       `gorm:"not null;default:1" json:"semester"`
	Credits    int       `gorm:"not null;default:4" json:"credits"`
	Instructor string    `gorm:"size:200" json:"instructor,omitempty"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
