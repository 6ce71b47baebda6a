package http

import (
	"github.com/cartwise/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures all routes and middleware
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	v1.Use(TimeoutMiddleware(cfg.Server.RequestTimeout))
	{
		v1.GET("/stores/:storeId/categories", handler.StoreCategories)
		v1.POST("/generate", handler.GenerateCategories)
		v1.POST("/match", handler.MatchProducts)
		v1.GET("/users/:userId/queries", handler.UserQueries)
	}

	return router
}
