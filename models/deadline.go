package models

import "time"

// Deadline type tokens persisted in deadlines.deadline_type.
const (
	DeadlineEditorAssignment = "EDITOR_ASSIGNMENT"
	DeadlineReview           = "REVIEW"
	DeadlineRevision         = "REVISION"
	DeadlineCopyedit         = "COPYEDIT"
	DeadlineProduction       = "PRODUCTION"
	DeadlinePublication      = "PUBLICATION"
)

// IsValidDeadlineType reports whether value is a known deadline type token.
func IsValidDeadlineType(value string) bool {
	switch value {
	case DeadlineEditorAssignment, DeadlineReview, DeadlineRevision,
		DeadlineCopyedit, DeadlineProduction, DeadlinePublication:
		return true
	}
	return false
}

// Deadline is a scheduled obligation tied to a submission and an assignee.
// At most one open deadline of a given type exists per submission per round;
// completing a deadline is terminal.
type Deadline struct {
	DeadlineID   int        `gorm:"primaryKey;column:deadline_id" json:"deadline_id"`
	SubmissionID int        `gorm:"column:submission_id" json:"submission_id"`
	DeadlineType string     `gorm:"column:deadline_type" json:"deadline_type"`
	RoundNo      int        `gorm:"column:round_no" json:"round_no"`
	DueDate      time.Time  `gorm:"column:due_date" json:"due_date"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	IsOverdue    bool       `gorm:"column:is_overdue" json:"is_overdue"`
	AssignedTo   *int       `gorm:"column:assigned_to" json:"assigned_to,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`

	Assignee *User `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}

func (Deadline) TableName() string {
	return "deadlines"
}

// IsOpen reports whether the obligation is still outstanding.
func (d *Deadline) IsOpen() bool {
	return d.CompletedAt == nil
}
