// Package devapi 是控制台的本地开发后端：实现与诊所后端相同的
// /api/auth、/api/products、/api/users 接口，数据放在 gorm 里。
package devapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"optical-console/internal/core/auth"
)

type Deps struct {
	DB  *gorm.DB
	JWT *auth.JWTer
	Log *zap.Logger
}

// Module 挂载在 /api 下；authed 分组已经走了 AuthJWT
type Module interface {
	Mount(public, authed *gin.RouterGroup)
}

// Modules 开发后端的全部接口模块
func Modules(d Deps) []Module {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return []Module{
		&AuthModule{d: d},
		&ProductModule{d: d},
		&UserModule{d: d},
	}
}
