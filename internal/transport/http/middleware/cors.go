package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = "21600"

// CORS allows cross-origin requests from any origin on every route,
// echoing the requested method on pre-flight and short-circuiting
// OPTIONS before auth runs.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		h.Set("Access-Control-Max-Age", corsMaxAge)

		if requested := c.GetHeader("Access-Control-Request-Method"); requested != "" {
			h.Set("Access-Control-Allow-Methods", requested)
		} else {
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
