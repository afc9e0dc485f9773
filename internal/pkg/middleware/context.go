package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tenancykit/dps-probe/pkg/log"
)

const UsernameKey = "username"

// Context 把请求 ID 等链路信息灌进 gin 上下文，供 log.L(ctx) 取用
func Context() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(log.KeyRequestID, c.GetString(XRequestIDKey))
		c.Set(log.KeyUsername, c.GetString(UsernameKey))
		c.Next()
	}
}
