package server

import (
	"github.com/gin-gonic/gin"

	"github.com/kindredapp/kindred/internal/config"
	"github.com/kindredapp/kindred/internal/logger"
	"github.com/kindredapp/kindred/internal/middleware"
)

// NewRouter builds the gin engine and registers all provided services under
// the authenticated /api/v1 group.
func NewRouter(cfg *config.Config, registrars ...Registrar) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), requestLogger())

	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(cfg.Auth.JWTSecret))
	for _, r := range registrars {
		r.Register(v1)
	}

	return router
}

// StartHTTPServer boots the HTTP server and blocks until it stops.
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	return NewRouter(cfg, registrars...).Run(cfg.HTTP.GetAddr())
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"request_id", c.GetString("request_id"),
		)
	}
}
