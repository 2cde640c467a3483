package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一返回结构，code=0 表示成功
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

// Fail 业务错误码与 HTTP 状态码一致，未知错误码按 500 返回
func Fail(c *gin.Context, code int, msg string) {
	status := code
	if http.StatusText(status) == "" {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{
		Code: code,
		Msg:  msg,
	})
}

// ErrorMiddleware 兜底 panic 和 c.Error 写入的错误
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
					Code: http.StatusInternalServerError,
					Msg:  "系统异常",
				})
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err

			var be *BizError
			if errors.As(err, &be) {
				Fail(c, be.Code, be.Msg)
			} else {
				Fail(c, http.StatusInternalServerError, err.Error())
			}
			c.Abort()
		}
	}
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
