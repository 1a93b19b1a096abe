package services

import (
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"journal-management-api/models"
)

func TestClassifyDeadlineBoundaries(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	done := now.Add(-time.Hour)

	cases := []struct {
		name     string
		deadline models.Deadline
		want     DeadlineState
	}{
		{
			// Completion wins even when the due date has passed.
			name:     "completed overdue",
			deadline: models.Deadline{DueDate: now.Add(-48 * time.Hour), CompletedAt: &done},
			want:     DeadlineCompleted,
		},
		{
			name:     "past due",
			deadline: models.Deadline{DueDate: now.Add(-time.Second)},
			want:     DeadlineOverdue,
		},
		{
			// A deadline due exactly now is not yet overdue; it is urgent.
			name:     "due now",
			deadline: models.Deadline{DueDate: now},
			want:     DeadlineUrgent,
		},
		{
			name:     "inside urgent window",
			deadline: models.Deadline{DueDate: now.Add(24 * time.Hour)},
			want:     DeadlineUrgent,
		},
		{
			// The 72 hour edge is inclusive.
			name:     "urgent window edge",
			deadline: models.Deadline{DueDate: now.Add(72 * time.Hour)},
			want:     DeadlineUrgent,
		},
		{
			name:     "just past the window",
			deadline: models.Deadline{DueDate: now.Add(72*time.Hour + time.Second)},
			want:     DeadlineUpcoming,
		},
		{
			name:     "far out",
			deadline: models.Deadline{DueDate: now.Add(30 * 24 * time.Hour)},
			want:     DeadlineUpcoming,
		},
	}
	for _, tc := range cases {
		if got := ClassifyDeadline(&tc.deadline, now); got != tc.want {
			t.Errorf("%s: ClassifyDeadline = %s, want %s", tc.name, got, tc.want)
		}
	}
}

// The materialized is_overdue flag must not influence classification.
func TestClassifyDeadlineIgnoresMaterializedFlag(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	stale := models.Deadline{DueDate: now.Add(10 * 24 * time.Hour), IsOverdue: true}
	if got := ClassifyDeadline(&stale, now); got != DeadlineUpcoming {
		t.Errorf("stale flag changed classification: got %s", got)
	}

	done := now.Add(-time.Hour)
	repaired := models.Deadline{DueDate: now.Add(-48 * time.Hour), IsOverdue: true, CompletedAt: &done}
	if got := ClassifyDeadline(&repaired, now); got != DeadlineCompleted {
		t.Errorf("completed deadline classified as %s", got)
	}
}

func TestSummarizeDeadlines(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	done := now.Add(-time.Hour)
	deadlines := []models.Deadline{
		{DueDate: now.Add(-time.Hour)},
		{DueDate: now.Add(-48 * time.Hour)},
		{DueDate: now.Add(12 * time.Hour)},
		{DueDate: now.Add(96 * time.Hour)},
		{DueDate: now.Add(-time.Hour), CompletedAt: &done},
	}

	summary := SummarizeDeadlines(deadlines, now)
	want := DeadlineSummary{Total: 5, Overdue: 2, Urgent: 1, Upcoming: 1, Completed: 1}
	if summary != want {
		t.Errorf("SummarizeDeadlines = %+v, want %+v", summary, want)
	}

	if got := SummarizeDeadlines(nil, now); got != (DeadlineSummary{}) {
		t.Errorf("empty scope should yield zero summary, got %+v", got)
	}
}

func TestGetDeadlineSummaryScoped(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	assignedTo := 5

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `deadlines` WHERE assigned_to = "),
			args:    []driver.Value{int64(assignedTo)},
			columns: []string{"deadline_id", "submission_id", "deadline_type", "due_date", "is_overdue"},
			rows: [][]driver.Value{
				{int64(1), int64(7), "REVIEW", now.Add(-time.Hour), true},
				{int64(2), int64(8), "REVIEW", now.Add(48 * time.Hour), false},
				{int64(3), int64(9), "REVISION", now.Add(240 * time.Hour), false},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	summary, err := GetDeadlineSummary(db, DeadlineScope{AssignedTo: &assignedTo}, now)
	if err != nil {
		t.Fatalf("GetDeadlineSummary: %v", err)
	}
	want := DeadlineSummary{Total: 3, Overdue: 1, Urgent: 1, Upcoming: 1}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
