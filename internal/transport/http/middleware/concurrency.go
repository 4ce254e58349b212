package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "optical-console/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护 DB / 后端）
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			resp.Abort(c, resp.CodeServerError, "server busy")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
