package models

import "time"

// Reviewer recommendation tokens persisted in reviews.recommendation.
const (
	RecommendationAccept = "ACCEPT"
	RecommendationMinor  = "MINOR"
	RecommendationMajor  = "MAJOR"
	RecommendationReject = "REJECT"
)

// IsValidRecommendation reports whether value is a known recommendation token.
func IsValidRecommendation(value string) bool {
	switch value {
	case RecommendationAccept, RecommendationMinor, RecommendationMajor, RecommendationReject:
		return true
	}
	return false
}

// Review is one reviewer's evaluation of one round of a submission.
// SubmittedAt is set exactly once; a submitted review is immutable.
type Review struct {
	ReviewID             int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID         int        `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID           int        `gorm:"column:reviewer_id" json:"reviewer_id"`
	RoundNo              int        `gorm:"column:round_no" json:"round_no"`
	Deadline             *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	SubmittedAt          *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	DeclinedAt           *time.Time `gorm:"column:declined_at" json:"declined_at,omitempty"`
	Score                *int       `gorm:"column:score" json:"score,omitempty"`
	Recommendation       *string    `gorm:"column:recommendation" json:"recommendation,omitempty"`
	Comments             *string    `gorm:"column:comments" json:"comments,omitempty"`
	ConfidentialComments *string    `gorm:"column:confidential_comments" json:"-"`
	CreatedAt            time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at" json:"updated_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// IsActive reports whether the assignment still participates in the round.
// A declined assignment that was never submitted is out of the round.
func (r *Review) IsActive() bool {
	return r.DeclinedAt == nil || r.SubmittedAt != nil
}

// IsSubmitted reports whether the reviewer has turned in the evaluation.
func (r *Review) IsSubmitted() bool {
	return r.SubmittedAt != nil
}

// CountsTowardQuorum reports whether the review counts toward the minimum
// reviewer quorum. A submitted review stays counted permanently, even if the
// reviewer is unassigned afterwards.
func (r *Review) CountsTowardQuorum() bool {
	return r.SubmittedAt != nil
}
