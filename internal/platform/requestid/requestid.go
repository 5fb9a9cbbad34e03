package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	Header = "X-Request-ID"
	CtxKey = "request_id"
)

// Middleware reuses an inbound X-Request-ID or mints a new UUID, and echoes it back.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(CtxKey, id)
		c.Header(Header, id)
		c.Next()
	}
}

// From returns the request id stored by Middleware, or "".
func From(c *gin.Context) string {
	return c.GetString(CtxKey)
}
