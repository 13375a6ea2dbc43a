package middleware

import (
	"github.com/gin-gonic/gin"

	"tsharaki/internal/metrics"
)

// Metrics records the response status of every request.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		collector.RecordHTTPStatus(c.Writer.Status())
	}
}
