package middleware

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"github.com/CamMacB17/spotpay/internal/ratelimit"
)

// RateLimit guards a route with the keyed limiter, keyed by client IP.
func RateLimit(limiter *ratelimit.Limiter) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				ginext.H{"error": "too many requests, slow down"},
			)
			return
		}

		c.Next()
	}
}
