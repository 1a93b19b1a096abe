package services

import (
	"fmt"

	"journal-management-api/models"
)

// PermissionDeniedError is returned when the actor's role lacks the
// permission for the attempted action. It is always surfaced to the caller.
type PermissionDeniedError struct {
	Role     string
	Resource string
	Action   string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("role %s is not allowed to %s %s", e.Role, e.Action, e.Resource)
}

// InvalidTransitionError is returned when a status change is not legal from
// the current state. Both states are carried for diagnosability.
type InvalidTransitionError struct {
	From   models.Status
	Target models.Status
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("cannot %s: transition %s -> %s is not allowed", e.Action, e.From, e.Target)
	}
	return fmt.Sprintf("action %s is not allowed from status %s", e.Action, e.From)
}

// AlreadyDecidedError is returned when a decision already exists for the
// submission round. Callers should treat it as "no-op, already done".
type AlreadyDecidedError struct {
	SubmissionID int
	RoundNo      int
	Decision     string
}

func (e *AlreadyDecidedError) Error() string {
	return fmt.Sprintf("submission %d round %d already decided: %s", e.SubmissionID, e.RoundNo, e.Decision)
}

// AlreadySubmittedError is returned on a second submission of the same
// review. Callers should treat it as "no-op, already done".
type AlreadySubmittedError struct {
	ReviewID int
}

func (e *AlreadySubmittedError) Error() string {
	return fmt.Sprintf("review %d has already been submitted", e.ReviewID)
}

// InsufficientReviewsError is returned when a decision is attempted before
// the minimum number of submitted reviews exists for the current round.
type InsufficientReviewsError struct {
	SubmissionID int
	RoundNo      int
	Submitted    int
	Required     int
	Pending      int
}

func (e *InsufficientReviewsError) Error() string {
	return fmt.Sprintf("submission %d round %d has %d submitted reviews (%d pending), %d required",
		e.SubmissionID, e.RoundNo, e.Submitted, e.Pending, e.Required)
}

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, problem string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: problem}}
}
