package services

import (
	"fmt"
	"log"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"gorm.io/gorm"
)

// statusChangeTemplates keys notification wording by the state entered.
var statusChangeTemplates = map[models.Status]struct {
	title string
	kind  string
}{
	models.StatusUnderReview:  {"Submission under review", "info"},
	models.StatusRevision:     {"Revision requested", "warning"},
	models.StatusAccepted:     {"Submission accepted", "success"},
	models.StatusRejected:     {"Submission rejected", "error"},
	models.StatusDeskReject:   {"Submission desk-rejected", "error"},
	models.StatusInProduction: {"Submission in production", "info"},
	models.StatusPublished:    {"Article published", "success"},
}

// NotifyStatusChange informs the author about a workflow change via an
// in-app notification row and, when SMTP is configured, an email. It is
// called fire-and-forget from the workflow engine; every failure is logged
// and swallowed.
func NotifyStatusChange(db *gorm.DB, event TransitionEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notification dispatch panicked for submission %d: %v", event.SubmissionID, r)
		}
	}()

	template, ok := statusChangeTemplates[event.To]
	if !ok {
		return
	}

	message := fmt.Sprintf("Submission %s moved from %s to %s.",
		event.SubmissionCode, event.From, event.To)

	submissionID := event.SubmissionID
	notification := models.Notification{
		UserID:              event.AuthorID,
		Title:               template.title,
		Message:             message,
		Type:                template.kind,
		RelatedSubmissionID: &submissionID,
		CreateAt:            time.Now(),
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("failed to store notification for submission %d: %v", event.SubmissionID, err)
	}

	var author models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", event.AuthorID).First(&author).Error; err != nil {
		log.Printf("failed to load author %d for notification mail: %v", event.AuthorID, err)
		return
	}

	html := fmt.Sprintf("<p>Dear %s,</p><p>%s</p><p>— Editorial Office</p>",
		author.FullName(), message)
	if err := config.SendMail([]string{author.Email}, template.title, html); err != nil {
		log.Printf("failed to send notification mail for submission %d: %v", event.SubmissionID, err)
	}
}

// NotifyReviewAssignment informs a reviewer about a new assignment.
// Best effort, same policy as status change notifications.
func NotifyReviewAssignment(db *gorm.DB, review *models.Review, submission *models.Submission) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("assignment notification panicked for review %d: %v", review.ReviewID, r)
		}
	}()

	message := fmt.Sprintf("You have been assigned to review submission %s (round %d).",
		submission.SubmissionCode, review.RoundNo)
	if review.Deadline != nil {
		message = fmt.Sprintf("%s Review due by %s.", message, review.Deadline.Format("2006-01-02"))
	}

	submissionID := submission.SubmissionID
	notification := models.Notification{
		UserID:              review.ReviewerID,
		Title:               "New review assignment",
		Message:             message,
		Type:                "info",
		RelatedSubmissionID: &submissionID,
		CreateAt:            time.Now(),
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("failed to store assignment notification for review %d: %v", review.ReviewID, err)
	}

	var reviewer models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", review.ReviewerID).First(&reviewer).Error; err != nil {
		log.Printf("failed to load reviewer %d for notification mail: %v", review.ReviewerID, err)
		return
	}

	html := fmt.Sprintf("<p>Dear %s,</p><p>%s</p><p>— Editorial Office</p>",
		reviewer.FullName(), message)
	if err := config.SendMail([]string{reviewer.Email}, "New review assignment", html); err != nil {
		log.Printf("failed to send assignment mail for review %d: %v", review.ReviewID, err)
	}
}
