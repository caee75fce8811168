package response

import (
	"net/http"

	"grant-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

// Response defines the standard JSON structure
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

// Success returns a success response with data
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, data)
}

// Created 201，用于新建资源
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, data)
}

func write(c *gin.Context, status int, data interface{}) {
	if data == nil {
		data = gin.H{} // Return empty object instead of null
	}
	c.JSON(status, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Error returns an error response
// HTTP 状态码取自 errno；Detail (例如重复交易的 grantId) 放在 data 中返回
func Error(c *gin.Context, err error) {
	e := errno.Decode(err)
	var data interface{} = gin.H{}
	if e.Detail != nil {
		data = e.Detail
	}
	c.JSON(e.HTTP, Response{
		Code:    e.Code,
		Message: e.Message,
		Data:    data,
	})
}

// Abort 用于中间件: 写出错误并终止后续 handler
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
