package router

import (
	"sort"

	"github.com/gin-gonic/gin"

	"optical-console/internal/devapi"
)

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 收集 devapi 模块，按优先级挂到 /api 下
type Registry struct {
	mods []devapi.Module
}

func NewRegistry(mods ...devapi.Module) *Registry {
	return &Registry{mods: append([]devapi.Module(nil), mods...)}
}

func (r *Registry) Register(mods ...devapi.Module) {
	r.mods = append(r.mods, mods...)
}

// MountAll public 不鉴权，authed 已挂 AuthJWT
func (r *Registry) MountAll(public, authed *gin.RouterGroup) {
	mods := append([]devapi.Module(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(public, authed)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
