package middleware

import (
	"wikiboard/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns every request a UUID (honoring an inbound
// X-Request-ID) and echoes it in the response. The ID ends up in the task
// history ledger as part of change provenance.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Provenance collects the request origin recorded with every ledger entry.
func Provenance(c *gin.Context) domain.Provenance {
	return domain.Provenance{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString("request_id"),
	}
}
