package services

import (
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// decisionActions maps a decision token to the workflow action it drives.
var decisionActions = map[string]Action{
	models.DecisionAccept:     ActionAccept,
	models.DecisionReject:     ActionReject,
	models.DecisionMinor:      ActionRequestRevision,
	models.DecisionMajor:      ActionRequestRevision,
	models.DecisionDeskReject: ActionDeskReject,
}

// DecisionReadiness checks whether a round is ready for an editorial
// ruling: the submission is under review, every active assignment of the
// round has been turned in, and the submitted count meets the quorum.
// Reviews submitted before a reviewer was unassigned stay counted.
func DecisionReadiness(submission *models.Submission, reviews []models.Review, minimumReviewers int) error {
	if submission.Status != models.StatusUnderReview {
		return &InvalidTransitionError{From: submission.Status, Target: "", Action: "decide"}
	}

	submitted := 0
	pending := 0
	for i := range reviews {
		r := &reviews[i]
		if r.RoundNo != submission.CurrentRound {
			continue
		}
		if r.CountsTowardQuorum() {
			submitted++
			continue
		}
		if r.IsActive() {
			pending++
		}
	}

	if pending > 0 || submitted < minimumReviewers {
		return &InsufficientReviewsError{
			SubmissionID: submission.SubmissionID,
			RoundNo:      submission.CurrentRound,
			Submitted:    submitted,
			Required:     minimumReviewers,
			Pending:      pending,
		}
	}
	return nil
}

// CanDecide reports whether the submission's current round is eligible for
// decision aggregation.
func CanDecide(submission *models.Submission, reviews []models.Review, minimumReviewers int) bool {
	return DecisionReadiness(submission, reviews, minimumReviewers) == nil
}

// DecisionService records editorial rulings and drives the state machine.
type DecisionService struct {
	db       *gorm.DB
	workflow *WorkflowService
	now      func() time.Time
}

func NewDecisionService(db *gorm.DB) *DecisionService {
	return &DecisionService{db: db, workflow: NewWorkflowService(db), now: time.Now}
}

// WithClock overrides the service clock. Intended for tests.
func (s *DecisionService) WithClock(now func() time.Time) *DecisionService {
	s.now = now
	s.workflow.WithClock(now)
	return s
}

func (s *DecisionService) database() *gorm.DB {
	if s.db != nil {
		return s.db
	}
	return config.DB
}

// RecordDecision appends an immutable decision for the submission's current
// round and applies the mapped status transition in the same transaction.
// The row lock serializes concurrent decisions: the first commit wins, a
// second attempt for the same round fails with AlreadyDecided and leaves
// the submission untouched.
func (s *DecisionService) RecordDecision(submissionID int, actor Actor, decision string, note string) (*models.Submission, error) {
	if !models.IsValidDecision(decision) {
		return nil, NewValidationError("decision", "must be ACCEPT, REJECT, MINOR, MAJOR or DESK_REJECT")
	}
	action := decisionActions[decision]

	db := s.database()
	now := s.now()

	var submission models.Submission
	var event TransitionEvent

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("submission_id = ? AND delete_at IS NULL", submissionID).
			First(&submission).Error; err != nil {
			return err
		}

		var existing models.Decision
		err := tx.Where("submission_id = ? AND round_no = ?", submission.SubmissionID, submission.CurrentRound).
			Order("decided_at DESC").
			First(&existing).Error
		if err == nil {
			return &AlreadyDecidedError{
				SubmissionID: submission.SubmissionID,
				RoundNo:      submission.CurrentRound,
				Decision:     existing.Decision,
			}
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		// Desk rejection rules on NEW submissions; quorum only applies to
		// rounds that actually went out for review.
		if decision != models.DecisionDeskReject {
			settings, err := GetReviewSettings(tx)
			if err != nil {
				return err
			}
			var reviews []models.Review
			if err := tx.Where("submission_id = ? AND round_no = ?", submission.SubmissionID, submission.CurrentRound).
				Find(&reviews).Error; err != nil {
				return err
			}
			if err := DecisionReadiness(&submission, reviews, settings.MinimumReviewers); err != nil {
				return err
			}
		}

		record := models.Decision{
			SubmissionID: submission.SubmissionID,
			RoundNo:      submission.CurrentRound,
			EditorID:     actor.UserID,
			Decision:     decision,
			DecidedAt:    now,
		}
		if note != "" {
			record.Note = &note
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		event, err = s.workflow.TransitionTx(tx, &submission, action, actor, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.workflow.dispatchEvent(event)
	return &submission, nil
}
