package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"optical-console/internal/api"
	"optical-console/internal/core/auth"
	"optical-console/internal/query"
	resp "optical-console/internal/transport/http/response"
	"optical-console/internal/transport/http/session"
)

// Console 控制台页面；每个请求按会话拿到自己的 api 客户端和查询缓存
type Console struct {
	api   *api.Client
	query *query.Client
	log   *zap.Logger
}

func NewConsole(a *api.Client, q *query.Client, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{api: a, query: q, log: log}
}

// Page 所有页面共用的数据
type Page struct {
	Title    string
	Nav      string
	Operator auth.Operator
	Flashes  []resp.Notification
	Notice   *resp.Notification
}

func (h *Console) page(c *gin.Context, title, nav string) Page {
	s := session.From(c)
	p := Page{Title: title, Nav: nav, Flashes: s.Flashes()}
	if s.HasToken() {
		p.Operator = auth.Peek(s.Token())
	}
	return p
}

func (h *Console) queries(c *gin.Context) *query.Session {
	s := session.From(c)
	return h.query.Session(s.SID(), h.api.WithSession(s))
}

func (h *Console) render(c *gin.Context, code int, name string, data any) {
	session.From(c).Save()
	c.HTML(code, name, data)
}

func (h *Console) redirect(c *gin.Context, to string) {
	session.From(c).Save()
	c.Redirect(http.StatusSeeOther, to)
}

// flashTo 带提示跳转
func (h *Console) flashTo(c *gin.Context, to string, n resp.Notification) {
	session.From(c).AddFlash(n)
	h.redirect(c, to)
}

// failure 远端失败时页面的状态码
func failure(err error) int {
	var ce *api.CredentialsError
	switch {
	case errors.Is(err, query.ErrPending):
		return http.StatusConflict
	case errors.As(err, &ce):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

func (h *Console) logFail(c *gin.Context, op string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("op", op),
		zap.String("sid", session.From(c).SID()),
		zap.Error(err),
	)
	var se *api.StatusError
	if errors.As(err, &se) {
		fields = append(fields, zap.Int("status", se.Status))
	}
	h.log.Warn("backend call failed", fields...)
}

// RequireLogin 没有 token 的请求一律回登录页；token 是否有效交给后端判断
func (h *Console) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.From(c).HasToken() {
			h.redirect(c, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Console) Home(c *gin.Context) { c.Redirect(http.StatusFound, "/inventory") }
