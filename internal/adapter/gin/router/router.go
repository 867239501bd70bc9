package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-api-service/internal/adapter/gin/handler"
	"user-api-service/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and
// middleware. The /api group requires the static USER-API-KEY header;
// the health endpoint does not.
func SetupRouter(
	userHandler *handler.UserHandler,
	apiKey string,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	if rateLimiter != nil {
		router.Use(rateLimiter.Handler())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-api-service",
		})
	})

	api := router.Group("/api")
	api.Use(middleware.APIKeyAuth(apiKey, log))
	{
		users := api.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
		}
	}

	return router
}
