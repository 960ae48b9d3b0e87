package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"gowoa/domain/core"
	"gowoa/internal"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// RequestID propagates a well-formed incoming request ID or assigns a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseRequestID(c.GetHeader(RequestIDHeader))
		if err != nil {
			id = core.NewRequestID()
		}
		c.Set(RequestIDHeader, id.String())
		c.Header(RequestIDHeader, id.String())
		c.Next()
	}
}

// RequestLogger logs one line per request through logger. Server errors log
// at ERROR, client errors at WARN and everything else at INFO.
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := logger.Info
		switch {
		case status >= 500:
			log = logger.Error
		case status >= 400:
			log = logger.Warn
		}
		log("[API] %s %s %d %s id=%s", c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.GetString(RequestIDHeader))
	}
}
