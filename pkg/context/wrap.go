package context

import (
	"Lumen/pkg/response"
	"errors"

	"github.com/gin-gonic/gin"
)

const CtxUserID = "user_id"

type HandlerFunc func(*gin.Context) error

// Wrap 把返回 error 的 handler 适配成 gin.HandlerFunc，BizError 按其 Code 返回
func Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			var be *response.BizError
			if errors.As(err, &be) {
				response.Fail(c, be.Code, be.Msg)
				return
			}
			_ = c.Error(err)
			response.Fail(c, 500, "系统繁忙")
		}
	}
}

// GetUserID 鉴权中间件写入的用户 ID
func GetUserID(c *gin.Context) (string, error) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", errors.New("user_id 不存在")
	}

	uid, ok := v.(string)
	if !ok || uid == "" {
		return "", errors.New("user_id 类型错误")
	}

	return uid, nil
}
