package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PreflightEcho allows any method and any header on CORS preflight by
// echoing Access-Control-Request-Method and Access-Control-Request-Headers.
// A literal "*" is not honoured for credentialed requests. It must run before
// cors.New, which must be configured without AllowMethods or AllowHeaders so
// it leaves these headers alone.
func PreflightEcho() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodOptions || c.GetHeader("Origin") == "" {
			c.Next()
			return
		}
		method := c.GetHeader("Access-Control-Request-Method")
		if method == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Methods", method)
		if headers := c.GetHeader("Access-Control-Request-Headers"); headers != "" {
			h.Set("Access-Control-Allow-Headers", headers)
		}
		c.Next()
	}
}
