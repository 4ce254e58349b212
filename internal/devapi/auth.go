package devapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"optical-console/internal/repo"
	"optical-console/internal/transport/http/ez"
	"optical-console/pkg/utils"
)

// InvalidCredentials 登录失败的响应体（纯文本）
const InvalidCredentials = "Invalid credentials"

type AuthModule struct{ d Deps }

func (m *AuthModule) Priority() int { return 10 }

type loginIn struct {
	LoginIdentifier string `json:"loginIdentifier" binding:"required"`
	Password        string `json:"password"        binding:"required"`
}

type loginOut struct {
	AccessToken string `json:"accessToken"`
}

func (m *AuthModule) Mount(public, _ *gin.RouterGroup) {
	ez.RegisterAction[loginIn, loginOut](ez.New(public), m.d.DB, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Plain:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *loginIn) (loginOut, error) {
			ident := strings.TrimSpace(in.LoginIdentifier)
			u, err := repo.NewUserRepo(tx).FindByLogin(c.Request.Context(), ident)
			if err != nil {
				return loginOut{}, ez.Internal("login failed", err)
			}
			// 不区分“用户不存在 / 密码错 / 已归档”
			if u == nil || u.IsArchived || !utils.CheckPassword(in.Password, u.PasswordHash) {
				m.d.Log.Info("login rejected", zap.String("ident", ident))
				return loginOut{}, ez.Unauthorized(InvalidCredentials)
			}
			tok, err := m.d.JWT.Issue(u.UserID, u.Username, u.Role)
			if err != nil {
				return loginOut{}, ez.Internal("issue token failed", err)
			}
			return loginOut{AccessToken: tok}, nil
		},
	})
}
