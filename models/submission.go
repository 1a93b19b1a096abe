package models

import "time"

// Status is the submission lifecycle state. The string tokens are persisted
// in submissions.status and must stay exactly as listed for existing data.
type Status string

const (
	StatusNew          Status = "NEW"
	StatusDeskReject   Status = "DESK_REJECT"
	StatusUnderReview  Status = "UNDER_REVIEW"
	StatusRevision     Status = "REVISION"
	StatusAccepted     Status = "ACCEPTED"
	StatusRejected     Status = "REJECTED"
	StatusInProduction Status = "IN_PRODUCTION"
	StatusPublished    Status = "PUBLISHED"
)

// AllStatuses lists every lifecycle state in rough lifecycle order.
var AllStatuses = []Status{
	StatusNew,
	StatusDeskReject,
	StatusUnderReview,
	StatusRevision,
	StatusAccepted,
	StatusRejected,
	StatusInProduction,
	StatusPublished,
}

// Valid reports whether s is one of the known status tokens.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is legal from s.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusDeskReject || s == StatusPublished
}

type Submission struct {
	SubmissionID       int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionCode     string     `gorm:"column:submission_code;unique" json:"submission_code"`
	Title              string     `gorm:"column:title" json:"title"`
	Abstract           string     `gorm:"column:abstract" json:"abstract"`
	Keywords           string     `gorm:"column:keywords" json:"keywords"`
	Category           string     `gorm:"column:category" json:"category"`
	Status             Status     `gorm:"column:status" json:"status"`
	CurrentRound       int        `gorm:"column:current_round" json:"current_round"`
	AuthorID           int        `gorm:"column:author_id" json:"author_id"`
	IsOverdue          bool       `gorm:"column:is_overdue" json:"is_overdue"`
	LastStatusChangeAt time.Time  `gorm:"column:last_status_change_at" json:"last_status_change_at"`
	SubmittedAt        *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeleteAt           *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Author    *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Reviews   []Review   `gorm:"foreignKey:SubmissionID" json:"reviews,omitempty"`
	Decisions []Decision `gorm:"foreignKey:SubmissionID" json:"decisions,omitempty"`
	Deadlines []Deadline `gorm:"foreignKey:SubmissionID" json:"deadlines,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// DaysInCurrentStatus is always recomputed from the wall clock, never stored.
func (s *Submission) DaysInCurrentStatus(now time.Time) int {
	if s.LastStatusChangeAt.IsZero() {
		return 0
	}
	days := int(now.Sub(s.LastStatusChangeAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Article is the production/publication record attached to an accepted
// submission. Its existence blocks physical deletion of the submission.
type Article struct {
	ArticleID    int        `gorm:"primaryKey;column:article_id" json:"article_id"`
	SubmissionID int        `gorm:"column:submission_id" json:"submission_id"`
	DOI          *string    `gorm:"column:doi" json:"doi,omitempty"`
	Volume       *string    `gorm:"column:volume" json:"volume,omitempty"`
	Issue        *string    `gorm:"column:issue" json:"issue,omitempty"`
	Pages        *string    `gorm:"column:pages" json:"pages,omitempty"`
	PublishedAt  *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Article) TableName() string {
	return "articles"
}
