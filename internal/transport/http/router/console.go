package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"optical-console/internal/api"
	"optical-console/internal/query"
	"optical-console/internal/transport/http/handler"
	mdw "optical-console/internal/transport/http/middleware"
	"optical-console/internal/transport/http/session"
	"optical-console/internal/view"
)

type ConsoleDeps struct {
	API      *api.Client
	Query    *query.Client
	Sessions *session.Manager
	Log      *zap.Logger

	// 登录限流（每个 IP），零值用默认
	LoginRate  rate.Limit
	LoginBurst int
}

// NewConsoleEngine 服务端渲染的控制台
func NewConsoleEngine(d ConsoleDeps) (*gin.Engine, error) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.LoginRate == 0 {
		d.LoginRate = rate.Every(time.Second)
	}
	if d.LoginBurst == 0 {
		d.LoginBurst = 10
	}
	tpl, err := view.Load()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tpl)
	r.Use(
		mdw.RequestID(),
		mdw.SimpleRecovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", mdw.MetricsHandler())

	h := handler.NewConsole(d.API, d.Query, d.Log)

	pages := r.Group("", d.Sessions.Middleware())
	pages.GET("/login", h.LoginPage)
	pages.POST("/login", mdw.RateLimitPerIP(d.LoginRate, d.LoginBurst, 10*time.Minute), h.Login)
	pages.POST("/logout", h.Logout)

	authed := pages.Group("", h.RequireLogin())
	authed.GET("/", h.Home)

	inv := authed.Group("/inventory")
	inv.GET("", h.Inventory)
	inv.GET("/add", h.NewProduct)
	inv.POST("/add", h.CreateProduct)
	inv.GET("/edit/:id", h.EditProduct)
	inv.POST("/edit/:id", h.UpdateProduct)
	inv.POST("/:id/archive", h.ArchiveProduct)

	users := authed.Group("/users")
	users.GET("", h.Users)
	users.GET("/add", h.NewUser)
	users.POST("/add", h.CreateUser)
	users.GET("/edit/:id", h.EditUser)
	users.POST("/edit/:id", h.UpdateUser)
	users.POST("/:id/archive", h.ArchiveUser)

	return r, nil
}
