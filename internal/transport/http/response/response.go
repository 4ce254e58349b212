package response

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// Abort HTTP 状态即 code；浏览器页面请求回纯文本，其余回 JSON
func Abort(c *gin.Context, code int, customMsg string) {
	r := Error(code, customMsg)
	if wantsHTML(c) {
		c.Abort()
		c.String(code, r.Msg)
		return
	}
	c.AbortWithStatusJSON(code, r)
}

func wantsHTML(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "text/html") ||
		strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded")
}
