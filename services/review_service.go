package services

import (
	"errors"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewService manages reviewer assignments and review submission.
type ReviewService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db, now: time.Now}
}

// WithClock overrides the service clock. Intended for tests.
func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

func (s *ReviewService) database() *gorm.DB {
	if s.db != nil {
		return s.db
	}
	return config.DB
}

// AssignReviewer creates a review assignment for the given round. The
// quorum against minimum_reviewers is validated at decision time, not here,
// because reviewers may still decline after assignment.
func (s *ReviewService) AssignReviewer(submissionID, reviewerID, roundNo int, actor Actor) (*models.Review, error) {
	if !CanAccess(actor.Role, ResourceReview, PermAssign) {
		return nil, &PermissionDeniedError{Role: actor.Role, Resource: ResourceReview, Action: PermAssign}
	}

	db := s.database()
	now := s.now()

	var review models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		var submission models.Submission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("submission_id = ? AND delete_at IS NULL", submissionID).
			First(&submission).Error; err != nil {
			return err
		}

		if submission.Status.IsTerminal() {
			return &InvalidTransitionError{From: submission.Status, Action: "assign_reviewer"}
		}

		if roundNo == 0 {
			roundNo = submission.CurrentRound
		}
		if roundNo != submission.CurrentRound {
			return NewValidationError("round_no", "reviewers can only be assigned to the current round")
		}

		var reviewer models.User
		if err := tx.Where("user_id = ? AND delete_at IS NULL", reviewerID).First(&reviewer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("reviewer_id", "reviewer not found")
			}
			return err
		}
		if reviewer.UserID == submission.AuthorID {
			return NewValidationError("reviewer_id", "authors cannot review their own submission")
		}

		var count int64
		if err := tx.Model(&models.Review{}).
			Where("submission_id = ? AND reviewer_id = ? AND round_no = ? AND declined_at IS NULL",
				submissionID, reviewerID, roundNo).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return NewValidationError("reviewer_id", "reviewer is already assigned for this round")
		}

		review = models.Review{
			SubmissionID: submissionID,
			ReviewerID:   reviewerID,
			RoundNo:      roundNo,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		settings, err := GetReviewSettings(tx)
		if err != nil {
			return err
		}

		// A submission already under review gets the review deadline right
		// away; for NEW submissions it is created on send_to_review.
		if submission.Status == models.StatusUnderReview {
			due := now.AddDate(0, 0, settings.ReviewDeadlineDays)
			review.Deadline = &due
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
			return ensureOpenDeadlineFor(tx, &submission, models.DeadlineReview, due, &reviewerID, now)
		}
		return tx.Create(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// SubmitReview turns in a reviewer's evaluation. submitted_at is written
// exactly once; a second submission fails with AlreadySubmitted and changes
// nothing.
func (s *ReviewService) SubmitReview(reviewID int, actor Actor, score int, recommendation string, comments, confidentialComments string) (*models.Review, error) {
	if !CanAccess(actor.Role, ResourceReview, PermSubmit) {
		return nil, &PermissionDeniedError{Role: actor.Role, Resource: ResourceReview, Action: PermSubmit}
	}
	if !models.IsValidRecommendation(recommendation) {
		return nil, NewValidationError("recommendation", "must be ACCEPT, MINOR, MAJOR or REJECT")
	}
	if score < 0 || score > 100 {
		return nil, NewValidationError("score", "must be between 0 and 100")
	}

	db := s.database()
	now := s.now()

	var review models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("review_id = ?", reviewID).
			First(&review).Error; err != nil {
			return err
		}

		// Only the assigned reviewer submits; editors drive assignments
		// through assign/decline, never by filing the evaluation themselves.
		if review.ReviewerID != actor.UserID {
			return &PermissionDeniedError{Role: actor.Role, Resource: ResourceReview, Action: PermSubmit}
		}
		if review.SubmittedAt != nil {
			return &AlreadySubmittedError{ReviewID: review.ReviewID}
		}
		if review.DeclinedAt != nil {
			return NewValidationError("review_id", "assignment was declined")
		}

		review.SubmittedAt = &now
		review.Score = &score
		review.Recommendation = &recommendation
		if comments != "" {
			review.Comments = &comments
		}
		if confidentialComments != "" {
			review.ConfidentialComments = &confidentialComments
		}
		review.UpdatedAt = now

		if err := tx.Save(&review).Error; err != nil {
			return err
		}

		// The reviewer's own deadline is fulfilled by handing in the review.
		return tx.Model(&models.Deadline{}).
			Where("submission_id = ? AND deadline_type = ? AND round_no = ? AND assigned_to = ? AND completed_at IS NULL",
				review.SubmissionID, models.DeadlineReview, review.RoundNo, review.ReviewerID).
			Updates(map[string]interface{}{
				"completed_at": now,
				"is_overdue":   false,
				"updated_at":   now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeclineReview voids a pending assignment. A review that was already
// submitted cannot be declined; it stays part of the round's history.
func (s *ReviewService) DeclineReview(reviewID int, actor Actor) (*models.Review, error) {
	db := s.database()
	now := s.now()

	var review models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("review_id = ?", reviewID).
			First(&review).Error; err != nil {
			return err
		}

		if review.ReviewerID != actor.UserID && !IsEditor(actor.Role) {
			return &PermissionDeniedError{Role: actor.Role, Resource: ResourceReview, Action: PermUpdate}
		}
		if review.SubmittedAt != nil {
			return &AlreadySubmittedError{ReviewID: review.ReviewID}
		}
		if review.DeclinedAt != nil {
			return nil
		}

		review.DeclinedAt = &now
		review.UpdatedAt = now
		if err := tx.Save(&review).Error; err != nil {
			return err
		}

		// The declined reviewer owes nothing anymore.
		return tx.Model(&models.Deadline{}).
			Where("submission_id = ? AND deadline_type = ? AND round_no = ? AND assigned_to = ? AND completed_at IS NULL",
				review.SubmissionID, models.DeadlineReview, review.RoundNo, review.ReviewerID).
			Updates(map[string]interface{}{
				"completed_at": now,
				"is_overdue":   false,
				"updated_at":   now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ReviewsForSubmission returns all review rows of a submission, newest
// round first. Prior-round reviews are history and are never deleted.
func (s *ReviewService) ReviewsForSubmission(submissionID int) ([]models.Review, error) {
	var reviews []models.Review
	err := s.database().
		Preload("Reviewer").
		Where("submission_id = ?", submissionID).
		Order("round_no DESC, review_id ASC").
		Find(&reviews).Error
	return reviews, err
}
