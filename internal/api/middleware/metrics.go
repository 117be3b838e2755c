package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jpbaz28/Banking-API/internal/metrics"
)

// Metrics records request count, latency and in-flight requests per route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.RequestStarted(c.Request.Method, c.FullPath())
		c.Next()
		done(c.Writer.Status())
	}
}
