package controllers

import (
	"errors"
	"net/http"

	"journal-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Permission and transition errors always reach the caller verbatim.
func respondServiceError(c *gin.Context, err error) {
	var permErr *services.PermissionDeniedError
	var transitionErr *services.InvalidTransitionError
	var decidedErr *services.AlreadyDecidedError
	var submittedErr *services.AlreadySubmittedError
	var insufficientErr *services.InsufficientReviewsError
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": permErr.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   transitionErr.Error(),
			"current": transitionErr.From,
			"target":  transitionErr.Target,
		})
	case errors.As(err, &decidedErr):
		c.JSON(http.StatusConflict, gin.H{
			"success":  false,
			"error":    decidedErr.Error(),
			"decision": decidedErr.Decision,
			"already":  true,
		})
	case errors.As(err, &submittedErr):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   submittedErr.Error(),
			"already": true,
		})
	case errors.As(err, &insufficientErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":   false,
			"error":     insufficientErr.Error(),
			"submitted": insufficientErr.Submitted,
			"required":  insufficientErr.Required,
			"pending":   insufficientErr.Pending,
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation failed",
			"fields":  validationErr.Fields,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}
