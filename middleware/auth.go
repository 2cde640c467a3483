package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"Lumen/pkg/context"
	"Lumen/pkg/jwt"
	"Lumen/pkg/response"

	"github.com/gin-gonic/gin"
)

const ServiceTokenHeader = "X-Service-Token"

// Auth 校验用户 access token，user_id 写入上下文
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "Authorization 格式错误")
			return
		}

		claims, err := jwt.ParseToken(secret, jwt.TokenTypeAccess, parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		if claims.UserID == "" {
			response.Abort(c, http.StatusUnauthorized, "用户ID无效")
			return
		}
		c.Set(context.CtxUserID, claims.UserID)

		c.Next()
	}
}

// ServiceToken 内部协作方接口，共享密钥放在 X-Service-Token。
// 未配置密钥时一律拒绝。
func ServiceToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(ServiceTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			response.Abort(c, http.StatusForbidden, "invalid service token")
			return
		}
		c.Next()
	}
}
