package models

import "time"

// ReportStatus is the resolution state of an abuse report.
type ReportStatus string

const (
	// ReportStatusPending is the initial state of every report.
	ReportStatusPending ReportStatus = "pending"
	// ReportStatusReviewed marks a report a moderator has looked at but
	// not closed; it still permits a later resolved/dismissed transition.
	ReportStatusReviewed ReportStatus = "reviewed"
	// ReportStatusResolved is terminal.
	ReportStatusResolved ReportStatus = "resolved"
	// ReportStatusDismissed is terminal.
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Valid reports whether s is a known status value.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewed, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusResolved || s == ReportStatusDismissed
}

// CanTransitionTo reports whether the state machine permits moving from
// s to next. Pending may move anywhere forward; reviewed may still be
// resolved or dismissed; terminal states admit nothing.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	if !next.Valid() || next == ReportStatusPending {
		return false
	}
	switch s {
	case ReportStatusPending:
		return true
	case ReportStatusReviewed:
		return next == ReportStatusResolved || next == ReportStatusDismissed
	default:
		return false
	}
}

// Report is an abuse report filed against a thread or reply. Once a
// moderator resolves or dismisses it, the moderator reference and
// resolved timestamp are set and never cleared.
type Report struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ReporterID uint       `gorm:"not null;index" json:"reporter_id"`
	Reporter   User       `gorm:"foreignKey:ReporterID" json:"reporter"`
	TargetKind TargetKind `gorm:"type:varchar(20);not null;index:idx_report_target" json:"target_kind"`
	TargetID   uint       `gorm:"not null;index:idx_report_target" json:"target_id"`

	Reason          string       `gorm:"type:text;not null" json:"reason"`
	Status          ReportStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ModeratorID     *uint        `json:"moderator_id,omitempty"`
	Moderator       *User        `gorm:"foreignKey:ModeratorID" json:"moderator,omitempty"`
	ResolutionNotes string       `gorm:"type:text" json:"resolution_notes,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Target returns the tagged target this report points at.
func (r *Report) Target() Target {
	return Target{Kind: r.TargetKind, ID: r.TargetID}
}
