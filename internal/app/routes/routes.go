package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yigit/alumnet/internal/app/controllers"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	feedController *controllers.FeedController,
	followController *controllers.FollowController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/health", healthController.Health)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/feed", feedController.GetFeed)

		users := authenticated.Group("/users/:id")
		{
			users.GET("/follow-status", followController.GetFollowStatus)
			users.POST("/follow", followController.Follow)
			users.DELETE("/follow", followController.Unfollow)
			users.POST("/conversation", followController.StartConversation)
		}

		// Moderation routes
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/feed", feedController.GetModerationFeed)
		}
	}
}
