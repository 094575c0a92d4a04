package monitor

import (
	"os"
	"runtime"
	"time"

	"aip-recruiter/config"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// RegisterMonitorRoutes mounts the unauthenticated liveness probe and a
// token-guarded status endpoint (MONITOR_TOKEN).
func RegisterMonitorRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/monitor", func(c *gin.Context) {
		token := os.Getenv("MONITOR_TOKEN")
		if token == "" || c.Query("token") != token {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}

		dbStatus := "down"
		if config.DB != nil {
			if sqlDB, err := config.DB.DB(); err == nil && sqlDB.Ping() == nil {
				dbStatus = "up"
			}
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		c.JSON(200, gin.H{
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
			"database":       dbStatus,
			"goroutines":     runtime.NumGoroutine(),
			"heap_alloc_mb":  float64(mem.HeapAlloc) / (1024 * 1024),
			"go_version":     runtime.Version(),
		})
	})
}
