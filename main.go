package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"care-circle-api/config"
	"care-circle-api/logger"
	"care-circle-api/middleware"
	"care-circle-api/routes"
)

func main() {
	cfg := config.Load()
	logger.Init("care-circle-api", cfg.Debug)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	config.InitDB(cfg)

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "CareCircle Matching API",
			"version": "1.0.0",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the CareCircle Matching API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"elder", "helper", "admin"},
		})
	})

	routes.SetupRoutes(r)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("Server starting")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
