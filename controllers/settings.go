package controllers

import (
	"net/http"

	"journal-management-api/config"
	"journal-management-api/middleware"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetReviewSettings returns the active review configuration.
func GetReviewSettings(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceSettings, services.PermRead) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceSettings, Action: services.PermRead,
		})
		return
	}

	settings, err := services.GetReviewSettings(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load review settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

// UpdateReviewSettings mutates the review configuration. The visibility
// booleans cannot be set here; they follow the blind mode.
func UpdateReviewSettings(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !services.CanAccess(actor.Role, services.ResourceSettings, services.PermUpdate) {
		respondServiceError(c, &services.PermissionDeniedError{
			Role: actor.Role, Resource: services.ResourceSettings, Action: services.PermUpdate,
		})
		return
	}

	var update services.ReviewSettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	settings, err := services.UpdateReviewSettings(config.DB, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

// GetRolePermissions returns the permission grants for one role.
func GetRolePermissions(c *gin.Context) {
	role := c.Param("role")
	if !models.IsValidRole(role) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Unknown role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"role":        role,
		"permissions": services.RolePermissions(role),
		"is_admin":    services.IsAdmin(role),
		"is_editor":   services.IsEditor(role),
	})
}
