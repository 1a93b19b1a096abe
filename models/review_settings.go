package models

import "time"

// Blind review mode tokens persisted in review_settings.blind_review_mode.
const (
	BlindModeNone   = "NONE"
	BlindModeSingle = "SINGLE_BLIND"
	BlindModeDouble = "DOUBLE_BLIND"
)

// IsValidBlindMode reports whether value is a known blind mode token.
func IsValidBlindMode(value string) bool {
	switch value {
	case BlindModeNone, BlindModeSingle, BlindModeDouble:
		return true
	}
	return false
}

// ReviewSettings is the process-wide review configuration, stored as a single
// row. The two visibility booleans are derived from BlindReviewMode and must
// only be written through the mode derivation in the blind review service.
type ReviewSettings struct {
	SettingsID             int       `gorm:"primaryKey;column:settings_id" json:"settings_id"`
	BlindReviewMode        string    `gorm:"column:blind_review_mode" json:"blind_review_mode"`
	HideAuthorFromReviewer bool      `gorm:"column:hide_author_from_reviewer" json:"hide_author_from_reviewer"`
	HideReviewerFromAuthor bool      `gorm:"column:hide_reviewer_from_author" json:"hide_reviewer_from_author"`
	MinimumReviewers       int       `gorm:"column:minimum_reviewers" json:"minimum_reviewers"`
	ReviewDeadlineDays     int       `gorm:"column:review_deadline_days" json:"review_deadline_days"`
	RevisionDeadlineDays   int       `gorm:"column:revision_deadline_days" json:"revision_deadline_days"`
	AutoAssignReviewers    bool      `gorm:"column:auto_assign_reviewers" json:"auto_assign_reviewers"`
	UpdatedAt              time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ReviewSettings) TableName() string {
	return "review_settings"
}
