package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Action is a workflow verb requested against a submission.
type Action string

const (
	ActionSendToReview    Action = "send_to_review"
	ActionDeskReject      Action = "desk_reject"
	ActionRequestRevision Action = "request_revision"
	ActionSubmitRevision  Action = "submit_revision"
	ActionAccept          Action = "accept"
	ActionReject          Action = "reject"
	ActionStartProduction Action = "start_production"
	ActionPublish         Action = "publish"
)

// transitionRule binds an action to its only legal source state, its target
// state, and the permission that gates it.
type transitionRule struct {
	from       models.Status
	to         models.Status
	resource   string
	permission string
}

var transitionRules = map[Action]transitionRule{
	ActionSendToReview:    {models.StatusNew, models.StatusUnderReview, ResourceSubmission, PermAssign},
	ActionDeskReject:      {models.StatusNew, models.StatusDeskReject, ResourceSubmission, PermReject},
	ActionRequestRevision: {models.StatusUnderReview, models.StatusRevision, ResourceSubmission, PermApprove},
	ActionSubmitRevision:  {models.StatusRevision, models.StatusUnderReview, ResourceSubmission, PermSubmit},
	ActionAccept:          {models.StatusUnderReview, models.StatusAccepted, ResourceSubmission, PermApprove},
	ActionReject:          {models.StatusUnderReview, models.StatusRejected, ResourceSubmission, PermReject},
	ActionStartProduction: {models.StatusAccepted, models.StatusInProduction, ResourceArticle, PermCreate},
	ActionPublish:         {models.StatusInProduction, models.StatusPublished, ResourceSubmission, PermPublish},
}

// KnownAction reports whether action is a workflow verb the engine accepts.
func KnownAction(action Action) bool {
	_, ok := transitionRules[action]
	return ok
}

// PlanTransition validates an action against the actor's role and the
// current status, without touching storage. It returns the target status.
// Permission failures surface before legality failures so an unauthorized
// caller learns nothing about the submission's state.
func PlanTransition(current models.Status, action Action, role string) (models.Status, error) {
	rule, ok := transitionRules[action]
	if !ok {
		return "", NewValidationError("action", fmt.Sprintf("unknown workflow action %q", action))
	}
	if !CanAccess(role, rule.resource, rule.permission) {
		return "", &PermissionDeniedError{Role: role, Resource: rule.resource, Action: rule.permission}
	}
	if current != rule.from {
		return "", &InvalidTransitionError{From: current, Target: rule.to, Action: action}
	}
	return rule.to, nil
}

// Actor identifies who is driving a workflow change.
type Actor struct {
	UserID int
	Role   string
	IP     string
}

// TransitionEvent is emitted after a successful status change. The audit and
// notification sinks consume it outside the transaction; their failures are
// logged but never fail the transition.
type TransitionEvent struct {
	SubmissionID   int
	SubmissionCode string
	AuthorID       int
	Actor          Actor
	Action         Action
	From           models.Status
	To             models.Status
	RoundNo        int
	OccurredAt     time.Time
}

// Stage deadline sizing (days) for steps that have no per-journal setting.
const (
	editorAssignmentDays = 7
	copyeditDays         = 14
	productionDays       = 30
)

// WorkflowService drives the submission lifecycle.
type WorkflowService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{db: db, now: time.Now}
}

// WithClock overrides the service clock. Intended for tests.
func (s *WorkflowService) WithClock(now func() time.Time) *WorkflowService {
	s.now = now
	return s
}

func (s *WorkflowService) database() *gorm.DB {
	if s.db != nil {
		return s.db
	}
	return config.DB
}

// Transition applies a workflow action to a submission. The submission row
// is locked for the duration of the transaction, so two racing calls
// serialize: the loser re-validates against the committed state and fails
// with InvalidTransition. Durable changes (status, deadlines) are
// all-or-nothing; audit and notification dispatch happen after commit and
// are best effort.
func (s *WorkflowService) Transition(submissionID int, action Action, actor Actor) (*models.Submission, error) {
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

		target, err := PlanTransition(submission.Status, action, actor.Role)
		if err != nil {
			return err
		}

		return s.applyTransitionTx(tx, &submission, action, target, actor, now, &event)
	})
	if err != nil {
		return nil, err
	}

	s.dispatchEvent(event)
	return &submission, nil
}

// TransitionTx runs the same state change inside a caller-managed
// transaction that already holds the row lock. The decision aggregator uses
// it so a decision and its transition commit together. The returned event
// must be dispatched by the caller after commit.
func (s *WorkflowService) TransitionTx(tx *gorm.DB, submission *models.Submission, action Action, actor Actor, now time.Time) (TransitionEvent, error) {
	target, err := PlanTransition(submission.Status, action, actor.Role)
	if err != nil {
		return TransitionEvent{}, err
	}
	var event TransitionEvent
	if err := s.applyTransitionTx(tx, submission, action, target, actor, now, &event); err != nil {
		return TransitionEvent{}, err
	}
	return event, nil
}

func (s *WorkflowService) applyTransitionTx(tx *gorm.DB, submission *models.Submission, action Action, target models.Status, actor Actor, now time.Time, event *TransitionEvent) error {
	from := submission.Status

	submission.Status = target
	submission.LastStatusChangeAt = now
	submission.IsOverdue = false
	submission.UpdatedAt = now
	if action == ActionSubmitRevision {
		submission.CurrentRound++
	}

	if err := tx.Save(submission).Error; err != nil {
		return err
	}

	if err := s.applyEntryEffects(tx, submission, action, now); err != nil {
		return err
	}

	*event = TransitionEvent{
		SubmissionID:   submission.SubmissionID,
		SubmissionCode: submission.SubmissionCode,
		AuthorID:       submission.AuthorID,
		Actor:          actor,
		Action:         action,
		From:           from,
		To:             target,
		RoundNo:        submission.CurrentRound,
		OccurredAt:     now,
	}
	return nil
}

// dispatchEvent feeds the audit and notification sinks. Neither failure mode
// reaches the caller; both are logged for observability.
func (s *WorkflowService) dispatchEvent(event TransitionEvent) {
	if err := RecordTransitionAudit(s.database(), event); err != nil {
		log.Printf("audit write failed for submission %d (%s -> %s): %v",
			event.SubmissionID, event.From, event.To, err)
	}
	go NotifyStatusChange(s.database(), event)
}

// applyEntryEffects creates and completes deadlines for the state being
// entered, and maintains the production article record.
func (s *WorkflowService) applyEntryEffects(tx *gorm.DB, submission *models.Submission, action Action, now time.Time) error {
	switch submission.Status {
	case models.StatusUnderReview:
		if err := completeOpenDeadlines(tx, submission.SubmissionID, now,
			models.DeadlineEditorAssignment, models.DeadlineRevision); err != nil {
			return err
		}
		return s.createReviewDeadlines(tx, submission, now)

	case models.StatusRevision:
		if err := completeOpenDeadlines(tx, submission.SubmissionID, now, models.DeadlineReview); err != nil {
			return err
		}
		settings, err := GetReviewSettings(tx)
		if err != nil {
			return err
		}
		due := now.AddDate(0, 0, settings.RevisionDeadlineDays)
		return ensureOpenDeadline(tx, submission, models.DeadlineRevision, due, &submission.AuthorID, now)

	case models.StatusAccepted:
		if err := completeOpenDeadlines(tx, submission.SubmissionID, now, models.DeadlineReview); err != nil {
			return err
		}
		due := now.AddDate(0, 0, copyeditDays)
		return ensureOpenDeadline(tx, submission, models.DeadlineCopyedit, due, nil, now)

	case models.StatusInProduction:
		if err := completeOpenDeadlines(tx, submission.SubmissionID, now, models.DeadlineCopyedit); err != nil {
			return err
		}
		if err := ensureArticle(tx, submission, now); err != nil {
			return err
		}
		due := now.AddDate(0, 0, productionDays)
		return ensureOpenDeadline(tx, submission, models.DeadlineProduction, due, nil, now)

	case models.StatusPublished:
		if err := completeOpenDeadlines(tx, submission.SubmissionID, now,
			models.DeadlineProduction, models.DeadlinePublication); err != nil {
			return err
		}
		return tx.Model(&models.Article{}).
			Where("submission_id = ? AND published_at IS NULL", submission.SubmissionID).
			Updates(map[string]interface{}{"published_at": now, "updated_at": now}).Error

	case models.StatusRejected, models.StatusDeskReject:
		// Terminal: nothing is owed on this submission anymore.
		return completeOpenDeadlines(tx, submission.SubmissionID, now,
			models.DeadlineEditorAssignment, models.DeadlineReview, models.DeadlineRevision,
			models.DeadlineCopyedit, models.DeadlineProduction, models.DeadlinePublication)
	}
	return nil
}

// createReviewDeadlines opens one REVIEW deadline per active, unsubmitted
// review assignment of the current round, sized by review_deadline_days.
func (s *WorkflowService) createReviewDeadlines(tx *gorm.DB, submission *models.Submission, now time.Time) error {
	settings, err := GetReviewSettings(tx)
	if err != nil {
		return err
	}
	due := now.AddDate(0, 0, settings.ReviewDeadlineDays)

	var assignments []models.Review
	if err := tx.Where("submission_id = ? AND round_no = ? AND declined_at IS NULL AND submitted_at IS NULL",
		submission.SubmissionID, submission.CurrentRound).
		Find(&assignments).Error; err != nil {
		return err
	}

	for i := range assignments {
		reviewerID := assignments[i].ReviewerID
		if err := ensureOpenDeadlineFor(tx, submission, models.DeadlineReview, due, &reviewerID, now); err != nil {
			return err
		}
		if assignments[i].Deadline == nil {
			if err := tx.Model(&models.Review{}).
				Where("review_id = ?", assignments[i].ReviewID).
				Updates(map[string]interface{}{"deadline": due, "updated_at": now}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// completeOpenDeadlines closes every open deadline of the given types.
// Completion also clears the materialized overdue flag: a completed deadline
// must never read as overdue.
func completeOpenDeadlines(tx *gorm.DB, submissionID int, now time.Time, types ...string) error {
	if len(types) == 0 {
		return nil
	}
	return tx.Model(&models.Deadline{}).
		Where("submission_id = ? AND deadline_type IN ? AND completed_at IS NULL", submissionID, types).
		Updates(map[string]interface{}{
			"completed_at": now,
			"is_overdue":   false,
			"updated_at":   now,
		}).Error
}

// ensureOpenDeadline opens a deadline of the given type for the current
// round unless one is already open. One open deadline per type per round.
func ensureOpenDeadline(tx *gorm.DB, submission *models.Submission, deadlineType string, due time.Time, assignedTo *int, now time.Time) error {
	var count int64
	if err := tx.Model(&models.Deadline{}).
		Where("submission_id = ? AND deadline_type = ? AND round_no = ? AND completed_at IS NULL",
			submission.SubmissionID, deadlineType, submission.CurrentRound).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return createDeadline(tx, submission, deadlineType, due, assignedTo, now)
}

// ensureOpenDeadlineFor is the per-assignee variant used for REVIEW
// deadlines, where each reviewer carries an own obligation.
func ensureOpenDeadlineFor(tx *gorm.DB, submission *models.Submission, deadlineType string, due time.Time, assignedTo *int, now time.Time) error {
	var count int64
	if err := tx.Model(&models.Deadline{}).
		Where("submission_id = ? AND deadline_type = ? AND round_no = ? AND assigned_to = ? AND completed_at IS NULL",
			submission.SubmissionID, deadlineType, submission.CurrentRound, assignedTo).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return createDeadline(tx, submission, deadlineType, due, assignedTo, now)
}

func createDeadline(tx *gorm.DB, submission *models.Submission, deadlineType string, due time.Time, assignedTo *int, now time.Time) error {
	deadline := models.Deadline{
		SubmissionID: submission.SubmissionID,
		DeadlineType: deadlineType,
		RoundNo:      submission.CurrentRound,
		DueDate:      due,
		AssignedTo:   assignedTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return tx.Create(&deadline).Error
}

func ensureArticle(tx *gorm.DB, submission *models.Submission, now time.Time) error {
	var existing models.Article
	err := tx.Where("submission_id = ?", submission.SubmissionID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	article := models.Article{
		SubmissionID: submission.SubmissionID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return tx.Create(&article).Error
}

// CreateIntakeDeadline opens the EDITOR_ASSIGNMENT deadline for a freshly
// received submission.
func CreateIntakeDeadline(tx *gorm.DB, submission *models.Submission, now time.Time) error {
	due := now.AddDate(0, 0, editorAssignmentDays)
	return ensureOpenDeadline(tx, submission, models.DeadlineEditorAssignment, due, nil, now)
}
