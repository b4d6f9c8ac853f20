package controllers

import (
	"log"
	"net/http"

	"github.com/M7HZ/bright-clinic/handlers"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// rootHandler handles requests to the root path
func rootHandler(c *gin.Context) {
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write([]byte("Bright Clinic portal API")); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// SetupRootRoute sets up the root, health and metrics routes.
func SetupRootRoute(router *gin.Engine) {
	router.GET("/", rootHandler)
	router.GET("/healthz", handlers.Healthz)
	router.GET("/readyz", handlers.Readyz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
