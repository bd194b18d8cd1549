package api

import (
	"net/http"
	"time"

	"ingetin-backend/internal/auth/delivery"
	authUsecase "ingetin-backend/internal/auth/usecase"
	notificationDelivery "ingetin-backend/internal/notification/delivery"
	taskDelivery "ingetin-backend/internal/task/delivery"
	"ingetin-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, taskHandler *taskDelivery.TaskHandler, notificationHandler *notificationDelivery.NotificationHandler) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	requireAuth := delivery.AuthMiddleware(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "healthy",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
				"service":   "ingetin-backend",
			})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.POST("/logout", requireAuth, authHandler.Logout)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(requireAuth)
		{
			fcm.POST("/register", authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", authHandler.UnregisterFCMToken)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.GET("/filter", taskHandler.FilterTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.PATCH("/:id/checklist/:itemId", taskHandler.UpdateChecklistItem)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.GetNotifications)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Endpoint not found")
	})
}
