package fakeapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"finboard/internal/log"
)

const requestIDHeader = "X-Request-ID"

// trace echoes or assigns a request id and logs each exchange at a level
// derived from its status.
func trace(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := log.NewFields().
			WithRequestID(requestID).
			WithHTTPRequest(c.Request.Method, c.Request.URL.String()).
			WithHTTPResponse(status, time.Since(start).Milliseconds())
		logger.Log(c.Request.Context(), log.StatusLevel(status), "HTTP request completed", fields.ToSlice()...)
	}
}
