package http

import (
	"github.com/gin-gonic/gin"

	"github.com/painelgpt/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		restaurants := v1.Group("/restaurants")
		{
			restaurants.GET("", handler.ListRestaurants)
			restaurants.GET("/:id/audit", handler.RestaurantAudit)

			matches := restaurants.Group("/:id/matches")
			{
				matches.GET("", handler.ListMatches)
				matches.GET("/export", handler.ExportMatches)
				matches.POST("/confirm", handler.ConfirmMatch)
				matches.POST("/confirm-auto", handler.ConfirmAutoMatches)
				matches.POST("/unlink", handler.UnlinkMatch)
			}
		}

		v1.GET("/items", handler.ListItems)
	}

	return router
}
