package models

import "time"

// Editorial decision tokens persisted in decisions.decision.
const (
	DecisionAccept     = "ACCEPT"
	DecisionReject     = "REJECT"
	DecisionMinor      = "MINOR"
	DecisionMajor      = "MAJOR"
	DecisionDeskReject = "DESK_REJECT"
)

// IsValidDecision reports whether value is a known decision token.
func IsValidDecision(value string) bool {
	switch value {
	case DecisionAccept, DecisionReject, DecisionMinor, DecisionMajor, DecisionDeskReject:
		return true
	}
	return false
}

// Decision is an editorial ruling on a submission for a given round.
// Rows are append-only and never edited; the latest row by DecidedAt is
// authoritative for the round.
type Decision struct {
	DecisionID   int       `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	RoundNo      int       `gorm:"column:round_no" json:"round_no"`
	EditorID     int       `gorm:"column:editor_id" json:"editor_id"`
	Decision     string    `gorm:"column:decision" json:"decision"`
	Note         *string   `gorm:"column:note" json:"note,omitempty"`
	DecidedAt    time.Time `gorm:"column:decided_at" json:"decided_at"`

	Editor *User `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
}

func (Decision) TableName() string {
	return "decisions"
}
