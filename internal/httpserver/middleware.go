package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"energy-accounting-bot/pkg/response"
)

// rateLimit returns a per-client-IP limiter middleware. Limiter state lives
// in an expirable LRU so idle clients age out on their own.
func (srv *HTTPServer) rateLimit(requestsPerMin int) gin.HandlerFunc {
	if requestsPerMin <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	perSecond := rate.Limit(float64(requestsPerMin) / 60.0)
	limiters := expirable.NewLRU[string, *rate.Limiter](1000, nil, 5*time.Minute)

	return func(c *gin.Context) {
		key := c.ClientIP()
		limiter, ok := limiters.Get(key)
		if !ok {
			limiter = rate.NewLimiter(perSecond, burst)
			limiters.Add(key, limiter)
		}
		if !limiter.Allow() {
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
