package middlewares

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the configuration for the rate limiter
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type rateLimiterData struct {
	limiter *rate.Limiter
	mu      sync.Mutex
}

// NewRateLimiterMiddleware creates a new rate limiter middleware shared
// across all clients of the portal.
func NewRateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	data := &rateLimiterData{
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
	}

	return func(c *gin.Context) {
		data.mu.Lock()
		allowed := data.limiter.Allow()
		data.mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
