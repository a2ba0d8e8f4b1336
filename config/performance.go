package config

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sareeledger-backend/logger"
)

const slowRequestThreshold = 200 * time.Millisecond

func PerformanceLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
		)

		if latency > slowRequestThreshold {
			log.Warn("slow request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"latency", latency,
			)
		}
	}
}

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}
