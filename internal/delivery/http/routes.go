package http

import (
	"net/http"

	"github.com/cartcompare/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SetupRouter creates and configures the Gin router. metricsHandler may be nil.
func SetupRouter(cfg *config.Config, handler *Handler, metricsHandler http.Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/compare", handler.Compare)
		v1.GET("/stores", handler.ListStores)
		v1.GET("/stores/:name", handler.GetStore)
	}

	return router
}
