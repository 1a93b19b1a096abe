package services

import (
	"time"

	"journal-management-api/models"
)

// Visibility is the pair of identity-hiding flags derived from the blind
// review mode. The two flags are never set independently; every write goes
// through VisibilityForMode.
type Visibility struct {
	HideAuthorFromReviewer bool
	HideReviewerFromAuthor bool
}

// VisibilityForMode derives the visibility flags for a blind review mode:
//
//	NONE          -> hide nothing
//	SINGLE_BLIND  -> reviewer identity hidden from the author
//	DOUBLE_BLIND  -> both identities hidden
//
// Unknown modes fall back to double blind, the most restrictive choice.
func VisibilityForMode(mode string) Visibility {
	switch mode {
	case models.BlindModeNone:
		return Visibility{HideAuthorFromReviewer: false, HideReviewerFromAuthor: false}
	case models.BlindModeSingle:
		return Visibility{HideAuthorFromReviewer: false, HideReviewerFromAuthor: true}
	case models.BlindModeDouble:
		return Visibility{HideAuthorFromReviewer: true, HideReviewerFromAuthor: true}
	}
	return Visibility{HideAuthorFromReviewer: true, HideReviewerFromAuthor: true}
}

// ApplyBlindMode sets the mode on settings and overwrites both visibility
// flags from the derivation table, regardless of their previous values.
func ApplyBlindMode(settings *models.ReviewSettings, mode string) error {
	if !models.IsValidBlindMode(mode) {
		return NewValidationError("blind_review_mode", "must be NONE, SINGLE_BLIND or DOUBLE_BLIND")
	}
	v := VisibilityForMode(mode)
	settings.BlindReviewMode = mode
	settings.HideAuthorFromReviewer = v.HideAuthorFromReviewer
	settings.HideReviewerFromAuthor = v.HideReviewerFromAuthor
	return nil
}

// AuthorInfo is the identity block optionally attached to submission views.
type AuthorInfo struct {
	UserID       int     `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Organization *string `json:"organization,omitempty"`
}

// SubmissionView is what a reviewer sees of a submission. Author identity is
// present only when the active policy allows it.
type SubmissionView struct {
	SubmissionID   int           `json:"submission_id"`
	SubmissionCode string        `json:"submission_code"`
	Title          string        `json:"title"`
	Abstract       string        `json:"abstract"`
	Keywords       string        `json:"keywords"`
	Category       string        `json:"category"`
	Status         models.Status `json:"status"`
	CurrentRound   int           `json:"current_round"`
	Author         *AuthorInfo   `json:"author,omitempty"`
}

// ProjectSubmissionForReviewer strips author identity, organization and
// email from the submission when the active policy hides authors.
func ProjectSubmissionForReviewer(submission *models.Submission, v Visibility) SubmissionView {
	view := SubmissionView{
		SubmissionID:   submission.SubmissionID,
		SubmissionCode: submission.SubmissionCode,
		Title:          submission.Title,
		Abstract:       submission.Abstract,
		Keywords:       submission.Keywords,
		Category:       submission.Category,
		Status:         submission.Status,
		CurrentRound:   submission.CurrentRound,
	}
	if !v.HideAuthorFromReviewer && submission.Author != nil {
		view.Author = &AuthorInfo{
			UserID:       submission.Author.UserID,
			Name:         submission.Author.FullName(),
			Email:        submission.Author.Email,
			Organization: submission.Author.Organization,
		}
	}
	return view
}

// ReviewerInfo is the identity block optionally attached to review views.
type ReviewerInfo struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
}

// ReviewView is what an author sees of a review. It has no field for
// confidential comments: those are for editors only, under every blind mode.
type ReviewView struct {
	ReviewID       int           `json:"review_id"`
	RoundNo        int           `json:"round_no"`
	Recommendation *string       `json:"recommendation,omitempty"`
	Score          *int          `json:"score,omitempty"`
	Comments       *string       `json:"comments,omitempty"`
	SubmittedAt    *time.Time    `json:"submitted_at,omitempty"`
	Reviewer       *ReviewerInfo `json:"reviewer,omitempty"`
}

// ReviewEditorView is the unredacted review projection for editorial roles.
// This is the only path that serializes confidential comments.
type ReviewEditorView struct {
	ReviewView
	ReviewerID           int        `json:"reviewer_id"`
	ConfidentialComments *string    `json:"confidential_comments,omitempty"`
	DeclinedAt           *time.Time `json:"declined_at,omitempty"`
	Deadline             *time.Time `json:"deadline,omitempty"`
}

// ProjectReviewForEditor exposes the full review, reviewer identity and
// confidential comments included.
func ProjectReviewForEditor(review *models.Review) ReviewEditorView {
	view := ReviewEditorView{
		ReviewView:           ProjectReviewForAuthor(review, Visibility{}),
		ReviewerID:           review.ReviewerID,
		ConfidentialComments: review.ConfidentialComments,
		DeclinedAt:           review.DeclinedAt,
		Deadline:             review.Deadline,
	}
	return view
}

// ProjectReviewForAuthor strips reviewer identity when the active policy
// hides reviewers. Confidential comments are never copied into the view.
func ProjectReviewForAuthor(review *models.Review, v Visibility) ReviewView {
	view := ReviewView{
		ReviewID:       review.ReviewID,
		RoundNo:        review.RoundNo,
		Recommendation: review.Recommendation,
		Score:          review.Score,
		Comments:       review.Comments,
		SubmittedAt:    review.SubmittedAt,
	}
	if !v.HideReviewerFromAuthor && review.Reviewer != nil {
		view.Reviewer = &ReviewerInfo{
			UserID: review.Reviewer.UserID,
			Name:   review.Reviewer.FullName(),
		}
	}
	return view
}
