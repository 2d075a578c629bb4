package api

import (
	"net/http"

	v1 "github.com/docuforge/docuforge/internal/api/v1"
	"github.com/docuforge/docuforge/internal/config"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers for router wiring.
type Handlers struct {
	Validation *v1.ValidationHandler
}

// NewRouter builds the gin engine with the standard middleware chain.
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != config.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = log.GetGinLogger()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(log),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := router.Group("/v1")
	{
		group.POST("/validate-download", handlers.Validation.ValidateDownload)
		group.POST("/validate-bulk-export", handlers.Validation.ValidateBulkExport)
		group.POST("/access-requests", handlers.Validation.CreateAccessRequest)
	}

	return router
}
