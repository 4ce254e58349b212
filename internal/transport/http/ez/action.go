package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	mdw "optical-console/internal/transport/http/middleware"
	resp "optical-console/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// AErr 统一错误对象，Code 即 HTTP 状态
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Code: http.StatusConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Action I 入参，O 出参；O 直接作为响应体，不再套 Resp
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/auth/login"、"/products/:id"
	Binder  Binder
	Auth    bool // 是否要求登录（检查 userId）
	UseTx   bool // 是否包事务（gorm.Transaction）
	Status  int  // 成功状态码，默认 200；204 时不写响应体
	Plain   bool // 错误以纯文本返回
	Handler func(c *gin.Context, db *gorm.DB, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, db *gorm.DB, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	fail := func(c *gin.Context, code int, msg string) {
		if a.Plain {
			c.String(code, msg)
			return
		}
		c.JSON(code, resp.Error(code, msg))
	}

	h := func(c *gin.Context) {
		// 1) 鉴权
		if a.Auth && c.GetString(mdw.KeyUserID) == "" {
			fail(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			fail(c, http.StatusBadRequest, bindErr.Error())
			return
		}

		// 3) 执行（可选事务）
		run := func(tx *gorm.DB) (O, error) { return a.Handler(c, tx, &in) }
		var out O
		var err error
		if a.UseTx {
			err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
				o, e := run(tx)
				out = o
				return e
			})
		} else {
			out, err = run(db.WithContext(c.Request.Context()))
		}

		// 4) 统一错误映射；500 不把内部错误带给调用方
		if err != nil {
			var ae *AErr
			if errors.As(err, &ae) {
				if ae.Err != nil {
					_ = c.Error(ae.Err)
				}
				fail(c, ae.Code, ae.Error())
				return
			}
			_ = c.Error(err)
			fail(c, http.StatusInternalServerError, resp.CodeMsgMap[resp.CodeServerError])
			return
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// IsDupKey 不依赖 gorm.ErrDuplicatedKey，各驱动的报错文本都认
func IsDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
