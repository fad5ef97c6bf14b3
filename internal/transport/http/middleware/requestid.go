package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const KeyRequestID = "X-Request-ID"

// RequestID 透传调用方带来的请求 ID，没有就补一个，后面路由层会把它写进遥测。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}
