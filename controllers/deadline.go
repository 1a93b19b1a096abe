package controllers

import (
	"net/http"
	"strconv"
	"time"

	"journal-management-api/config"
	"journal-management-api/middleware"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetDeadlineSummary aggregates SLA states over the caller's scope.
// Classification always happens against the current wall clock, so the
// summary is correct even when the sweep job lags.
func GetDeadlineSummary(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceDeadline, services.PermRead) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceDeadline, Action: services.PermRead,
		})
		return
	}

	scope := services.DeadlineScope{}

	if raw := c.Query("submission_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission_id filter"})
			return
		}
		scope.SubmissionID = &id
	}
	if raw := c.Query("deadline_type"); raw != "" {
		if !models.IsValidDeadlineType(raw) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid deadline_type filter"})
			return
		}
		scope.DeadlineType = &raw
	}

	// Non-editorial callers only see their own obligations.
	if !services.IsEditor(actor.Role) && actor.Role != models.RoleSecurityAuditor {
		scope.AssignedTo = &actor.UserID
	} else if raw := c.Query("assigned_to"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid assigned_to filter"})
			return
		}
		scope.AssignedTo = &id
	}

	summary, err := services.GetDeadlineSummary(config.DB, scope, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch deadlines"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// GetSubmissionDeadlines lists a submission's deadlines with their live SLA
// classification attached.
func GetSubmissionDeadlines(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceDeadline, services.PermRead) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceDeadline, Action: services.PermRead,
		})
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	var deadlines []models.Deadline
	if err := config.DB.Preload("Assignee").
		Where("submission_id = ?", submissionID).
		Order("due_date ASC").
		Find(&deadlines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch deadlines"})
		return
	}

	now := time.Now()
	type deadlineWithState struct {
		models.Deadline
		State services.DeadlineState `json:"state"`
	}
	rows := make([]deadlineWithState, 0, len(deadlines))
	for i := range deadlines {
		rows = append(rows, deadlineWithState{
			Deadline: deadlines[i],
			State:    services.ClassifyDeadline(&deadlines[i], now),
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deadlines": rows, "total": len(rows)})
}
