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

type AssignReviewerRequest struct {
	ReviewerID int `json:"reviewer_id" binding:"required"`
	RoundNo    int `json:"round_no"`
}

// AssignReviewer attaches a reviewer to the submission's current round and
// notifies them.
func AssignReviewer(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return
	}

	var req AssignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	review, err := services.NewReviewService(config.DB).AssignReviewer(submissionID, req.ReviewerID, req.RoundNo, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ?", submissionID).First(&submission).Error; err == nil {
		go services.NotifyReviewAssignment(config.DB, review, &submission)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

type SubmitReviewRequest struct {
	Score                int    `json:"score"`
	Recommendation       string `json:"recommendation" binding:"required"`
	Comments             string `json:"comments"`
	ConfidentialComments string `json:"confidential_comments"`
}

// SubmitReview turns in the caller's review for a submission round.
func SubmitReview(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid review ID"})
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	review, err := services.NewReviewService(config.DB).
		SubmitReview(reviewID, actor, req.Score, req.Recommendation, req.Comments, req.ConfidentialComments)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// DeclineReview voids the caller's pending assignment.
func DeclineReview(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid review ID"})
		return
	}

	review, err := services.NewReviewService(config.DB).DeclineReview(reviewID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// GetSubmissionReviews lists the reviews of a submission across all rounds.
// Authors get the blind projection; editorial roles see the full rows
// including confidential comments.
func GetSubmissionReviews(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceReview, services.PermRead) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceReview, Action: services.PermRead,
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

	reviews, err := services.NewReviewService(config.DB).ReviewsForSubmission(submissionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch reviews"})
		return
	}

	if actor.Role == models.RoleAuthor {
		if submission.AuthorID != actor.UserID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
			return
		}

		settings, err := services.GetReviewSettings(config.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load review settings"})
			return
		}
		visibility := services.VisibilityForMode(settings.BlindReviewMode)

		views := make([]services.ReviewView, 0, len(reviews))
		for i := range reviews {
			// Unsubmitted assignments are internal bookkeeping.
			if reviews[i].SubmittedAt == nil {
				continue
			}
			views = append(views, services.ProjectReviewForAuthor(&reviews[i], visibility))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reviews": views, "total": len(views)})
		return
	}

	// Reviewers only see their own assignments.
	if actor.Role == models.RoleReviewer {
		own := make([]models.Review, 0, len(reviews))
		for i := range reviews {
			if reviews[i].ReviewerID == actor.UserID {
				own = append(own, reviews[i])
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reviews": own, "total": len(own)})
		return
	}

	views := make([]services.ReviewEditorView, 0, len(reviews))
	for i := range reviews {
		views = append(views, services.ProjectReviewForEditor(&reviews[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": views, "total": len(views)})
}
