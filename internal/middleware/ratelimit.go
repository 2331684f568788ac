package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit limits requests per IP to maxRequests per window, allowing a
// burst of maxRequests. Idle visitors are forgotten after a few windows.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	visitors := make(map[string]*visitor)
	lastSweep := time.Now()
	every := rate.Every(window / time.Duration(maxRequests))

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > window {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > 2*window {
					delete(visitors, k)
				}
			}
			lastSweep = now
		}
		v, exists := visitors[ip]
		if !exists {
			v = &visitor{limiter: rate.NewLimiter(every, maxRequests)}
			visitors[ip] = v
		}
		v.lastSeen = now
		allowed := v.limiter.AllowN(now, 1)
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please try again later"})
			return
		}
		c.Next()
	}
}
