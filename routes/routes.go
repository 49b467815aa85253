package routes

import (
	"campus-governance-api/controllers"
	"campus-governance-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Campus Governance API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			events := protected.Group("/events")
			{
				events.POST("", controllers.CreateEvent)
				events.GET("/:id", controllers.GetEvent)

				// Approval workflow
				events.POST("/:id/submit", controllers.SubmitEventForApproval)
				events.POST("/:id/approve", controllers.ApproveEvent)
				events.POST("/:id/return", controllers.ReturnEventToDraft)
				events.POST("/:id/complete", controllers.CompleteEvent)
				events.GET("/:id/governance-log", controllers.GetEventGovernanceLog)

				// Judges
				events.POST("/:id/judges", controllers.AssignJudge)
				events.GET("/:id/judges", controllers.ListJudges)
				events.DELETE("/:id/judges/:judge_id", controllers.UnassignJudge)

				events.POST("/:id/submissions", controllers.CreateSubmission)

				// Score lock and results
				events.POST("/:id/lock", controllers.LockScores)
				events.GET("/:id/lock", controllers.GetScoreLock)
				events.GET("/:id/leaderboard", controllers.GetLeaderboard)
			}

			submissions := protected.Group("/submissions")
			{
				submissions.PUT("/:id/score", controllers.SubmitScore)
				submissions.GET("/:id/score", controllers.GetMyScore)
			}
		}
	}
}
