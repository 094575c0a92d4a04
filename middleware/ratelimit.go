package middleware

import (
	"context"
	"net/http"
	"time"

	"aip-recruiter/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

var limiterScript = redis.NewScript(rateLimitScript)

// allow runs a fixed-window counter in Redis. Fails open: if Redis is down or
// unconfigured the request goes through.
func allow(key string, limit int, window time.Duration) bool {
	if config.Redis == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	allowed, err := limiterScript.Run(ctx, config.Redis, []string{key}, ttl, limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// RateLimitByIP guards unauthenticated endpoints (the public apply form)
// against burst submissions from one address.
func RateLimitByIP(prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(prefix+":"+c.ClientIP(), limit, window) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
