package handlers

import (
	"context"
	"time"

	"github.com/M7HZ/bright-clinic/database"
	"github.com/gin-gonic/gin"
)

// Healthz reports process liveness.
func Healthz(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

// Readyz reports whether the portal can actually serve: both the
// database and redis must answer within the probe deadline.
func Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"postgres": "ok", "redis": "ok"}
	healthy := true

	if err := database.Healthy(ctx); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	}
	if err := database.RedisHealthy(ctx); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	status := 200
	if !healthy {
		status = 503
	}
	c.JSON(status, gin.H{"status": checks})
}
