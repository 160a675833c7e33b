package middlewares

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"

	"validea/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// Limiter is satisfied by *ratelimit.Limiter.
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// RateLimitMiddleware rejects clients that exceed the limiter's quota with 429
// and the given message. Counter store failures let the request through.
func RateLimitMiddleware(l Limiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.ResetIn.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
			return
		}
		c.Next()
	}
}
