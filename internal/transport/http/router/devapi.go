package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"optical-console/internal/core/auth"
	"optical-console/internal/core/server"
	"optical-console/internal/devapi"
	mdw "optical-console/internal/transport/http/middleware"
)

// NewDevAPIEngine 本地开发后端：/api/auth 公开，其余走 bearer JWT
func NewDevAPIEngine(l *zap.Logger, db *gorm.DB, j *auth.JWTer) *gin.Engine {
	r := server.NewRouter(l)
	r.Use(
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.RateLimit(rate.Limit(200), 400),
		mdw.ConcurrencyLimit(64),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(15*time.Second),
	)

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", mdw.MetricsHandler())

	api := r.Group("/api")
	authed := api.Group("", mdw.AuthJWT(j, ""))

	reg := NewRegistry(devapi.Modules(devapi.Deps{DB: db, JWT: j, Log: l})...)
	reg.MountAll(api, authed)
	return r
}
