package monitor

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"campus-governance-api/config"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

func authorized(c *gin.Context) bool {
	token := config.App.MonitorToken
	if token == "" || c.Query("token") != token {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}
	return true
}

// RegisterMonitorRoutes exposes process and connection pool status plus the log file.
func RegisterMonitorRoutes(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		if !authorized(c) {
			return
		}

		status := gin.H{
			"uptime_seconds":   int64(time.Since(startedAt).Seconds()),
			"goroutines":       runtime.NumGoroutine(),
			"environment":      config.App.Environment,
			"certificate_sink": config.App.CertificateSink,
			"database":         "unavailable",
		}

		if config.DB != nil {
			if sqlDB, err := config.DB.DB(); err == nil {
				if err := sqlDB.PingContext(c.Request.Context()); err == nil {
					stats := sqlDB.Stats()
					status["database"] = gin.H{
						"open_connections": stats.OpenConnections,
						"in_use":           stats.InUse,
						"idle":             stats.Idle,
						"wait_count":       stats.WaitCount,
						"wait_duration_ms": stats.WaitDuration.Milliseconds(),
					}
				}
			}
		}

		c.JSON(http.StatusOK, status)
	})

	router.GET("/logs", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		lines, _ := strconv.Atoi(c.DefaultQuery("tail", "500"))
		logData, err := config.TailLog(lines)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", logData)
	})
}
