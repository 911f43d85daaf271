package models

import "time"

// TargetKind discriminates the entity a like or report points at.
type TargetKind string

const (
	TargetThread TargetKind = "thread"
	TargetReply  TargetKind = "reply"
)

// Target identifies exactly one likeable/reportable entity by kind
// plus ID. "Both set" and "both null" states cannot be represented.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   uint       `json:"id"`
}

// ThreadTarget returns a Target pointing at a thread.
func ThreadTarget(id uint) Target {
	return Target{Kind: TargetThread, ID: id}
}

// ReplyTarget returns a Target pointing at a reply.
func ReplyTarget(id uint) Target {
	return Target{Kind: TargetReply, ID: id}
}

// Validate checks the discriminator and reference are well formed.
func (t Target) Validate() error {
	switch t.Kind {
	case TargetThread, TargetReply:
	default:
		return NewValidationError("target kind must be 'thread' or 'reply'")
	}
	if t.ID == 0 {
		return NewValidationError("target id is required")
	}
	return nil
}

// Like records a single user's like on a thread or reply.
// The (user, kind, target) triple is unique: a user may like a given
// target at most once. Rows are created and destroyed as a toggle,
// never updated.
type Like struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_like_user_target" json:"user_id"`
	TargetKind TargetKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_like_user_target" json:"target_kind"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_like_user_target" json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Target returns the tagged target this like points at.
func (l *Like) Target() Target {
	return Target{Kind: l.TargetKind, ID: l.TargetID}
}
