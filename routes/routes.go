package routes

import (
	"journal-management-api/controllers"
	"journal-management-api/middleware"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Submissions and the editorial workflow
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)

				// Authors create submissions and hand in revisions
				submissions.POST("", middleware.RequireRole(models.RoleAuthor), controllers.CreateSubmission)
				submissions.POST("/:id/revision", controllers.SubmitRevision)

				// Editor-level workflow actions
				submissions.POST("/:id/transition",
					middleware.RequireRole(services.EditorRoles...), controllers.TransitionSubmission)
				submissions.POST("/:id/reviewers",
					middleware.RequirePermission(services.ResourceReview, services.PermAssign), controllers.AssignReviewer)
				submissions.POST("/:id/decision",
					middleware.RequirePermission(services.ResourceDecision, services.PermCreate), controllers.RecordDecision)
				submissions.GET("/:id/decision/readiness", controllers.GetDecisionReadiness)
				submissions.GET("/:id/decisions", controllers.GetSubmissionDecisions)

				submissions.GET("/:id/reviews", controllers.GetSubmissionReviews)
				submissions.GET("/:id/deadlines", controllers.GetSubmissionDeadlines)
				submissions.GET("/:id/audit", controllers.GetSubmissionAuditTrail)

				submissions.DELETE("/:id",
					middleware.RequirePermission(services.ResourceSubmission, services.PermDelete), controllers.DeleteSubmission)
			}

			// Reviews (reviewer-facing)
			reviews := protected.Group("/reviews")
			{
				reviews.POST("/:id/submit", controllers.SubmitReview)
				reviews.POST("/:id/decline", controllers.DeclineReview)
			}

			// Deadline / SLA tracking
			deadlines := protected.Group("/deadlines")
			{
				deadlines.GET("/summary", controllers.GetDeadlineSummary)
			}

			// Review process settings
			settings := protected.Group("/settings")
			{
				settings.GET("/review", controllers.GetReviewSettings)
				settings.PUT("/review",
					middleware.RequireRole(services.AdminRoles...), controllers.UpdateReviewSettings)
			}

			// Permission matrix introspection
			protected.GET("/roles/:role/permissions", controllers.GetRolePermissions)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}
		}
	}
}
