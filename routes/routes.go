package routes

import (
	"time"

	"aip-recruiter/controllers"
	"aip-recruiter/middleware"
	"aip-recruiter/models"

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

			// Careers page
			public.GET("/careers/jobs", controllers.GetOpenJobs)
			public.POST("/apply",
				middleware.RateLimitByIP("apply", 5, time.Minute),
				controllers.SubmitApplication)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "AIP Recruiter API is running",
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

			// Job postings
			jobs := protected.Group("/jobs")
			{
				jobs.GET("", controllers.GetJobs)
				jobs.GET("/:id", controllers.GetJob)

				// Only admins manage postings
				jobs.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin), controllers.CreateJob)
				jobs.PUT("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin), controllers.UpdateJob)
				jobs.DELETE("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin), controllers.DeleteJob)
			}

			// Applications / pipeline board
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.GetApplicationsList)
				applications.GET("/:id", controllers.GetApplicationByID)
				applications.POST("", controllers.AddApplication)

				// Stage changes go through the engine, never direct writes
				applications.POST("/:id/transition", controllers.TransitionApplication)
				applications.POST("/:id/revert", controllers.RevertApplicationStage)
				applications.POST("/:id/reject", controllers.RejectApplicationStage)

				applications.POST("/:id/hot", controllers.ToggleHotApplicant)
				applications.POST("/:id/reassign", controllers.ReassignApplication)
				applications.POST("/:id/comments", controllers.AddComment)
				applications.GET("/:id/comments", controllers.GetComments)

				applications.POST("/:id/documents", controllers.UploadDocument)
			}

			// Documents
			documents := protected.Group("/documents")
			{
				documents.GET("/download/:file_id", controllers.DownloadDocument)
				documents.DELETE("/:file_id", controllers.DeleteDocument)
			}

			// Tasks
			tasks := protected.Group("/tasks")
			{
				tasks.GET("", controllers.GetMyTasks)
				tasks.POST("/:id/complete", controllers.CompleteTask)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.POST("/:id/read", controllers.MarkNotificationRead)
				notifications.POST("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/pipeline", controllers.GetPipelineStats)
				dashboard.GET("/activity", controllers.GetRecentActivity)
				dashboard.GET("/jobs-summary", controllers.GetJobSummary)
			}
		}
	}
}
