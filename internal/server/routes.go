package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datasure/profiling-agent/internal/agent"
)

// SetupRoutes wires the transport endpoints onto the router.
func SetupRoutes(router *gin.Engine, orch *agent.Orchestrator) {
	router.Use(corsMiddleware())

	router.GET("/", HealthCheck)
	router.POST("/run_agent", RunAgent(orch))
}

// corsMiddleware mirrors the permissive CORS policy the frontend expects.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
