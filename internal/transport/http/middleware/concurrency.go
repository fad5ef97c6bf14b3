package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护下游存储）
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "server busy"})
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
