package services

import (
	"fmt"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// RecordTransitionAudit appends an audit row for a committed workflow
// change. It runs outside the business transaction: the transition has
// already happened whether or not this write succeeds.
func RecordTransitionAudit(db *gorm.DB, event TransitionEvent) error {
	before := string(event.From)
	after := string(event.To)
	code := event.SubmissionCode
	submissionID := event.SubmissionID
	description := fmt.Sprintf("%s: %s -> %s (round %d)", event.Action, event.From, event.To, event.RoundNo)

	audit := models.AuditLog{
		UserID:       event.Actor.UserID,
		Action:       string(event.Action),
		EntityType:   "submission",
		EntityID:     &submissionID,
		EntityCode:   &code,
		BeforeStatus: &before,
		AfterStatus:  &after,
		Description:  &description,
		CreatedAt:    event.OccurredAt,
	}
	if event.Actor.IP != "" {
		ip := event.Actor.IP
		audit.IPAddress = &ip
	}
	return db.Create(&audit).Error
}

// AuditTrail returns the audit rows for one submission, oldest first.
func AuditTrail(db *gorm.DB, submissionID int) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := db.Where("entity_type = ? AND entity_id = ?", "submission", submissionID).
		Order("created_at ASC, audit_id ASC").
		Find(&rows).Error
	return rows, err
}
