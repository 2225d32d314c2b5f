package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
)

// Recovery panic 恢复中间件：记录后按统一结构返回 500
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf(c.Request.Context(), "panic recovered: %v", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": 1,
					"msg":   "internal server error",
				})
			}
		}()
		c.Next()
	}
}
