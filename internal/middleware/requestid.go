package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextRequestID holds the id attached to every request.
	ContextRequestID = "request_id"

	requestIDHeader = "X-Request-ID"
)

// RequestID attaches a unique id to each request, honoring one supplied by
// the caller, and echoes it in the response headers for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ContextRequestID, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}
