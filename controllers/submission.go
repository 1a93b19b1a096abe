package controllers

import (
	"net/http"
	"strconv"
	"time"

	"journal-management-api/config"
	"journal-management-api/middleware"
	"journal-management-api/models"
	"journal-management-api/services"
	"journal-management-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateSubmissionRequest struct {
	Title    string `json:"title" binding:"required"`
	Abstract string `json:"abstract" binding:"required"`
	Keywords string `json:"keywords"`
	Category string `json:"category" binding:"required"`
}

// CreateSubmission receives a new manuscript from an author. The submission
// starts at NEW with an editor-assignment deadline already ticking.
func CreateSubmission(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceSubmission, services.PermCreate) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceSubmission, Action: services.PermCreate,
		})
		return
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	now := time.Now()
	code := utils.GenerateSubmissionCode(now, func(candidate string) bool {
		var count int64
		config.DB.Model(&models.Submission{}).
			Where("submission_code = ?", candidate).
			Count(&count)
		return count > 0
	})

	submission := models.Submission{
		SubmissionCode:     code,
		Title:              utils.SanitizeInput(req.Title),
		Abstract:           req.Abstract,
		Keywords:           utils.SanitizeInput(req.Keywords),
		Category:           utils.SanitizeInput(req.Category),
		Status:             models.StatusNew,
		CurrentRound:       1,
		AuthorID:           actor.UserID,
		LastStatusChangeAt: now,
		SubmittedAt:        &now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}
		return services.CreateIntakeDeadline(tx, &submission, now)
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "submission": submission})
}

// GetSubmissions lists submissions visible to the caller. Authors see their
// own; reviewers see blind-projected submissions they are assigned to;
// editorial roles see everything.
func GetSubmissions(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceSubmission, services.PermRead) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceSubmission, Action: services.PermRead,
		})
		return
	}

	query := config.DB.Preload("Author").Where("delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		if !models.Status(status).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}
	if overdue := c.Query("overdue"); overdue == "true" {
		query = query.Where("is_overdue = ?", true)
	}

	switch actor.Role {
	case models.RoleAuthor:
		query = query.Where("author_id = ?", actor.UserID)
	case models.RoleReviewer:
		query = query.Where("submission_id IN (?)", config.DB.Model(&models.Review{}).
			Select("submission_id").
			Where("reviewer_id = ? AND declined_at IS NULL", actor.UserID))
	}

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch submissions"})
		return
	}

	if actor.Role == models.RoleReviewer {
		settings, err := services.GetReviewSettings(config.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load review settings"})
			return
		}
		visibility := services.VisibilityForMode(settings.BlindReviewMode)

		views := make([]services.SubmissionView, 0, len(submissions))
		for i := range submissions {
			views = append(views, services.ProjectSubmissionForReviewer(&submissions[i], visibility))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "submissions": views, "total": len(views)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submissions": submissions, "total": len(submissions)})
}

// GetSubmission returns one submission. Reviewers get the blind projection;
// authors and editorial roles get the full record with days-in-status.
func GetSubmission(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceSubmission, services.PermRead) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceSubmission, Action: services.PermRead,
		})
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	var submission models.Submission
	if err := config.DB.Preload("Author").
		Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if actor.Role == models.RoleAuthor && submission.AuthorID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return
	}

	if actor.Role == models.RoleReviewer {
		var assigned int64
		config.DB.Model(&models.Review{}).
			Where("submission_id = ? AND reviewer_id = ? AND declined_at IS NULL", submissionID, actor.UserID).
			Count(&assigned)
		if assigned == 0 {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
			return
		}

		settings, err := services.GetReviewSettings(config.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load review settings"})
			return
		}
		view := services.ProjectSubmissionForReviewer(&submission, services.VisibilityForMode(settings.BlindReviewMode))
		c.JSON(http.StatusOK, gin.H{"success": true, "submission": view})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":                true,
		"submission":             submission,
		"days_in_current_status": submission.DaysInCurrentStatus(time.Now()),
	})
}

type TransitionRequest struct {
	Action string `json:"action" binding:"required"`
}

// TransitionSubmission applies a workflow action (send_to_review,
// desk_reject, start_production, publish, ...) to a submission.
func TransitionSubmission(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	action := services.Action(req.Action)
	if !services.KnownAction(action) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown workflow action"})
		return
	}

	submission, err := services.NewWorkflowService(config.DB).Transition(submissionID, action, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

// SubmitRevision is the author-facing action that returns a REVISION
// submission into review and opens the next round. Calling it in any other
// status yields a typed transition conflict, not a generic failure.
func SubmitRevision(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if submission.AuthorID != actor.UserID && !services.IsEditor(actor.Role) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return
	}

	updated, err := services.NewWorkflowService(config.DB).Transition(submissionID, services.ActionSubmitRevision, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": updated})
}

// DeleteSubmission soft-deletes a submission. Deletion is blocked once
// decisions or an article depend on it.
func DeleteSubmission(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceSubmission, services.PermDelete) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceSubmission, Action: services.PermDelete,
		})
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var submission models.Submission
		if err := tx.Where("submission_id = ? AND delete_at IS NULL", submissionID).
			First(&submission).Error; err != nil {
			return err
		}

		var decisions int64
		if err := tx.Model(&models.Decision{}).
			Where("submission_id = ?", submissionID).
			Count(&decisions).Error; err != nil {
			return err
		}
		var articles int64
		if err := tx.Model(&models.Article{}).
			Where("submission_id = ?", submissionID).
			Count(&articles).Error; err != nil {
			return err
		}
		if decisions > 0 || articles > 0 {
			return services.NewValidationError("submission_id", "submission has dependent decisions or articles and cannot be deleted")
		}

		now := time.Now()
		return tx.Model(&models.Submission{}).
			Where("submission_id = ?", submissionID).
			Updates(map[string]interface{}{"delete_at": now, "updated_at": now}).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission deleted"})
}

// GetSubmissionAuditTrail returns the workflow audit rows for a submission.
func GetSubmissionAuditTrail(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceAudit, services.PermRead) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceAudit, Action: services.PermRead,
		})
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	trail, err := services.AuditTrail(config.DB, submissionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch audit trail"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "audit": trail, "total": len(trail)})
}
