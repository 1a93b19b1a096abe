package services

import (
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// DeadlineState is the SLA classification of a single deadline.
type DeadlineState string

const (
	DeadlineCompleted DeadlineState = "completed"
	DeadlineOverdue   DeadlineState = "overdue"
	DeadlineUrgent    DeadlineState = "urgent"
	DeadlineUpcoming  DeadlineState = "upcoming"
)

// urgentWindow is how far ahead of the due date an open deadline counts as
// urgent. A deadline due exactly at the window edge is urgent.
const urgentWindow = 72 * time.Hour

// ClassifyDeadline derives the SLA state of a deadline at the given instant.
// It is a pure function of two timestamps and is re-evaluated on every read;
// the is_overdue column is only a materialized cache maintained by the sweep.
func ClassifyDeadline(d *models.Deadline, now time.Time) DeadlineState {
	if d.CompletedAt != nil {
		return DeadlineCompleted
	}
	if d.DueDate.Before(now) {
		return DeadlineOverdue
	}
	if !d.DueDate.After(now.Add(urgentWindow)) {
		return DeadlineUrgent
	}
	return DeadlineUpcoming
}

// DeadlineSummary aggregates deadline SLA states for a scope.
type DeadlineSummary struct {
	Total     int `json:"total"`
	Overdue   int `json:"overdue"`
	Urgent    int `json:"urgent"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
}

// SummarizeDeadlines classifies each deadline at now and tallies the states.
func SummarizeDeadlines(deadlines []models.Deadline, now time.Time) DeadlineSummary {
	summary := DeadlineSummary{Total: len(deadlines)}
	for i := range deadlines {
		switch ClassifyDeadline(&deadlines[i], now) {
		case DeadlineCompleted:
			summary.Completed++
		case DeadlineOverdue:
			summary.Overdue++
		case DeadlineUrgent:
			summary.Urgent++
		case DeadlineUpcoming:
			summary.Upcoming++
		}
	}
	return summary
}

// DeadlineScope filters which deadlines a summary covers.
type DeadlineScope struct {
	SubmissionID *int
	AssignedTo   *int
	DeadlineType *string
}

// GetDeadlineSummary loads the deadlines matching scope and classifies them
// at now. Classification always happens in process so that "now" is honored
// even when the materialized flags are stale.
func GetDeadlineSummary(db *gorm.DB, scope DeadlineScope, now time.Time) (DeadlineSummary, error) {
	query := db.Model(&models.Deadline{})
	if scope.SubmissionID != nil {
		query = query.Where("submission_id = ?", *scope.SubmissionID)
	}
	if scope.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *scope.AssignedTo)
	}
	if scope.DeadlineType != nil {
		query = query.Where("deadline_type = ?", *scope.DeadlineType)
	}

	var deadlines []models.Deadline
	if err := query.Find(&deadlines).Error; err != nil {
		return DeadlineSummary{}, err
	}
	return SummarizeDeadlines(deadlines, now), nil
}

// RefreshOverdueFlags is the periodic sweep that re-materializes is_overdue
// on deadlines and submissions. A completed deadline must never keep an
// overdue flag, even when the sweep has been delayed, so the repair of
// completed rows runs unconditionally first.
func RefreshOverdueFlags(db *gorm.DB, now time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Deadline{}).
			Where("completed_at IS NOT NULL AND is_overdue = ?", true).
			Update("is_overdue", false).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Deadline{}).
			Where("completed_at IS NULL AND due_date < ? AND is_overdue = ?", now, false).
			Update("is_overdue", true).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Deadline{}).
			Where("completed_at IS NULL AND due_date >= ? AND is_overdue = ?", now, true).
			Update("is_overdue", false).Error; err != nil {
			return err
		}

		// A submission is overdue while it has at least one open overdue deadline.
		if err := tx.Model(&models.Submission{}).
			Where("submission_id IN (?)", tx.Model(&models.Deadline{}).
				Select("submission_id").
				Where("completed_at IS NULL AND due_date < ?", now)).
			Update("is_overdue", true).Error; err != nil {
			return err
		}

		return tx.Model(&models.Submission{}).
			Where("is_overdue = ? AND submission_id NOT IN (?)", true, tx.Model(&models.Deadline{}).
				Select("submission_id").
				Where("completed_at IS NULL AND due_date < ?", now)).
			Update("is_overdue", false).Error
	})
}
