package controllers

import (
	"net/http"
	"strconv"

	"journal-management-api/config"
	"journal-management-api/middleware"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

type RecordDecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Note     string `json:"note"`
}

// RecordDecision records an editorial ruling for the submission's current
// round and moves the submission to the mapped next state.
func RecordDecision(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	var req RecordDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	submission, err := services.NewDecisionService(config.DB).
		RecordDecision(submissionID, actor, req.Decision, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

// GetSubmissionDecisions lists the decision history of a submission,
// newest first. Decisions are append-only; this is the full record.
func GetSubmissionDecisions(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceDecision, services.PermRead) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceDecision, Action: services.PermRead,
		})
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	var decisions []models.Decision
	if err := config.DB.Preload("Editor").
		Where("submission_id = ?", submissionID).
		Order("decided_at DESC, decision_id DESC").
		Find(&decisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch decisions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "decisions": decisions, "total": len(decisions)})
}

// GetDecisionReadiness reports whether the submission's current round is
// eligible for a decision, with the quorum numbers behind the answer.
func GetDecisionReadiness(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceDecision, services.PermRead) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceDecision, Action: services.PermRead,
		})
		return
	}

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

	var reviews []models.Review
	if err := config.DB.Where("submission_id = ? AND round_no = ?", submissionID, submission.CurrentRound).
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch reviews"})
		return
	}

	settings, err := services.GetReviewSettings(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load review settings"})
		return
	}

	readiness := services.DecisionReadiness(&submission, reviews, settings.MinimumReviewers)
	response := gin.H{
		"success":    true,
		"can_decide": readiness == nil,
		"round_no":   submission.CurrentRound,
	}
	if readiness != nil {
		response["reason"] = readiness.Error()
	}
	c.JSON(http.StatusOK, response)
}
