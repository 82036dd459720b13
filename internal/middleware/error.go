package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/slinet/ehfetch/pkg/utils"
	"go.uber.org/zap"
)

// Recovery returns a middleware that turns panics into 500 responses.
// A panicking handler must not take the daemon down with it.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(500, utils.GetResponse(nil, 500, "internal error", nil))
			}
		}()
		c.Next()
	}
}
