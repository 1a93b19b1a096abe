package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"journal-management-api/models"
)

func TestPlanTransitionLegalPath(t *testing.T) {
	cases := []struct {
		from   models.Status
		action Action
		role   string
		want   models.Status
	}{
		{models.StatusNew, ActionSendToReview, models.RoleSectionEditor, models.StatusUnderReview},
		{models.StatusNew, ActionDeskReject, models.RoleSectionEditor, models.StatusDeskReject},
		{models.StatusNew, ActionDeskReject, models.RoleManagingEditor, models.StatusDeskReject},
		{models.StatusNew, ActionDeskReject, models.RoleEIC, models.StatusDeskReject},
		{models.StatusNew, ActionDeskReject, models.RoleSysadmin, models.StatusDeskReject},
		{models.StatusUnderReview, ActionRequestRevision, models.RoleSectionEditor, models.StatusRevision},
		{models.StatusRevision, ActionSubmitRevision, models.RoleAuthor, models.StatusUnderReview},
		{models.StatusUnderReview, ActionAccept, models.RoleEIC, models.StatusAccepted},
		{models.StatusUnderReview, ActionReject, models.RoleManagingEditor, models.StatusRejected},
		{models.StatusAccepted, ActionStartProduction, models.RoleLayoutEditor, models.StatusInProduction},
		{models.StatusInProduction, ActionPublish, models.RoleManagingEditor, models.StatusPublished},
	}
	for _, tc := range cases {
		got, err := PlanTransition(tc.from, tc.action, tc.role)
		if err != nil {
			t.Errorf("PlanTransition(%s, %s, %s) error: %v", tc.from, tc.action, tc.role, err)
			continue
		}
		if got != tc.want {
			t.Errorf("PlanTransition(%s, %s, %s) = %s, want %s", tc.from, tc.action, tc.role, got, tc.want)
		}
	}
}

// Terminal states allow nothing, for any action, even with a full grant.
func TestPlanTransitionTerminalStates(t *testing.T) {
	terminals := []models.Status{models.StatusPublished, models.StatusRejected, models.StatusDeskReject}
	actions := []Action{
		ActionSendToReview, ActionDeskReject, ActionRequestRevision, ActionSubmitRevision,
		ActionAccept, ActionReject, ActionStartProduction, ActionPublish,
	}
	for _, state := range terminals {
		if !state.IsTerminal() {
			t.Fatalf("%s should be terminal", state)
		}
		for _, action := range actions {
			_, err := PlanTransition(state, action, models.RoleSysadmin)
			var transitionErr *InvalidTransitionError
			if !errors.As(err, &transitionErr) {
				t.Errorf("PlanTransition(%s, %s) = %v, want InvalidTransitionError", state, action, err)
				continue
			}
			if transitionErr.From != state {
				t.Errorf("error should carry the current state %s, got %s", state, transitionErr.From)
			}
		}
	}
}

// Permission failures must surface before state legality failures.
func TestPlanTransitionPermissionBeforeLegality(t *testing.T) {
	_, err := PlanTransition(models.StatusPublished, ActionSendToReview, models.RoleAuthor)
	var permErr *PermissionDeniedError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionDeniedError, got %v", err)
	}
}

func TestPlanTransitionPermissionDenied(t *testing.T) {
	cases := []struct {
		action Action
		role   string
	}{
		{ActionSendToReview, models.RoleAuthor},
		{ActionSendToReview, models.RoleReviewer},
		{ActionDeskReject, models.RoleAuthor},
		{ActionDeskReject, models.RoleLayoutEditor},
		{ActionDeskReject, models.RoleSecurityAuditor},
		{ActionPublish, models.RoleSectionEditor},
		{ActionAccept, models.RoleReviewer},
	}
	for _, tc := range cases {
		rule := transitionRules[tc.action]
		_, err := PlanTransition(rule.from, tc.action, tc.role)
		var permErr *PermissionDeniedError
		if !errors.As(err, &permErr) {
			t.Errorf("PlanTransition(%s, %s, %s) = %v, want PermissionDeniedError", rule.from, tc.action, tc.role, err)
		}
	}
}

// Author-facing revision submission is only legal from REVISION, and the
// failure names both states so the caller can show a useful message.
func TestPlanTransitionSubmitRevisionOnlyFromRevision(t *testing.T) {
	for _, state := range models.AllStatuses {
		if state == models.StatusRevision {
			continue
		}
		_, err := PlanTransition(state, ActionSubmitRevision, models.RoleAuthor)
		var transitionErr *InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Errorf("submit_revision from %s: got %v, want InvalidTransitionError", state, err)
			continue
		}
		if transitionErr.From != state || transitionErr.Target != models.StatusUnderReview {
			t.Errorf("submit_revision from %s: error states = (%s -> %s)", state, transitionErr.From, transitionErr.Target)
		}
	}
}

func TestPlanTransitionUnknownAction(t *testing.T) {
	_, err := PlanTransition(models.StatusNew, Action("escalate"), models.RoleSysadmin)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for unknown action, got %v", err)
	}
}

func TestKnownAction(t *testing.T) {
	if !KnownAction(ActionSendToReview) {
		t.Error("send_to_review should be known")
	}
	if KnownAction(Action("escalate")) {
		t.Error("escalate should be unknown")
	}
}

// A full desk-reject transition through the scripted database: lock, status
// update, deadline completion, audit append.
func TestWorkflowTransitionDeskReject(t *testing.T) {
	fixedNow := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `submissions`.*FOR UPDATE"),
			columns: []string{"submission_id", "submission_code", "title", "status", "current_round", "author_id"},
			rows: [][]driver.Value{
				{int64(7), "HCQS-20260301-10151701", "On Lattice Codes", "NEW", int64(1), int64(3)},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `submissions` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `deadlines` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `audit_logs`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewWorkflowService(db).WithClock(func() time.Time { return fixedNow })
	actor := Actor{UserID: 11, Role: models.RoleManagingEditor}

	submission, err := svc.Transition(7, ActionDeskReject, actor)
	if err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}

	if submission.Status != models.StatusDeskReject {
		t.Errorf("status = %s, want DESK_REJECT", submission.Status)
	}
	if !submission.LastStatusChangeAt.Equal(fixedNow) {
		t.Errorf("last_status_change_at = %v, want %v", submission.LastStatusChangeAt, fixedNow)
	}
	if submission.IsOverdue {
		t.Error("is_overdue should be cleared on transition")
	}
	if submission.CurrentRound != 1 {
		t.Errorf("desk reject must not touch the round counter, got %d", submission.CurrentRound)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Handing in a revision reopens review and advances the round counter; the
// prior round's reviews are untouched history.
func TestWorkflowTransitionSubmitRevisionIncrementsRound(t *testing.T) {
	ClearSettingsCache()
	defer ClearSettingsCache()

	fixedNow := time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `submissions`.*FOR UPDATE"),
			columns: []string{"submission_id", "submission_code", "status", "current_round", "author_id"},
			rows: [][]driver.Value{
				{int64(7), "HCQS-20260301-10151701", "REVISION", int64(1), int64(3)},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `submissions` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			// The author's revision deadline is fulfilled by the hand-in.
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `deadlines` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `review_settings`"),
			columns: []string{"settings_id"},
			rows:    nil,
		},
		{
			// No assignments exist yet for the new round.
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `reviews`"),
			columns: []string{"review_id", "submission_id", "reviewer_id", "round_no"},
			rows:    nil,
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `audit_logs`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewWorkflowService(db).WithClock(func() time.Time { return fixedNow })
	submission, err := svc.Transition(7, ActionSubmitRevision, Actor{UserID: 3, Role: models.RoleAuthor})
	if err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}

	if submission.Status != models.StatusUnderReview {
		t.Errorf("status = %s, want UNDER_REVIEW", submission.Status)
	}
	if submission.CurrentRound != 2 {
		t.Errorf("current_round = %d, want 2", submission.CurrentRound)
	}
	if !submission.LastStatusChangeAt.Equal(fixedNow) {
		t.Errorf("last_status_change_at = %v, want %v", submission.LastStatusChangeAt, fixedNow)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// The loser of a race re-validates against the committed state: a second
// desk reject finds DESK_REJECT in the row and fails with a typed conflict.
func TestWorkflowTransitionConflictAfterRace(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `submissions`.*FOR UPDATE"),
			columns: []string{"submission_id", "submission_code", "status", "current_round", "author_id"},
			rows: [][]driver.Value{
				{int64(7), "HCQS-20260301-10151701", "DESK_REJECT", int64(1), int64(3)},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewWorkflowService(db)
	_, err := svc.Transition(7, ActionDeskReject, Actor{UserID: 11, Role: models.RoleEIC})

	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transitionErr.From != models.StatusDeskReject {
		t.Errorf("conflict error should carry committed state, got %s", transitionErr.From)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
