package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"optical-console/internal/schema"
	resp "optical-console/internal/transport/http/response"
	"optical-console/internal/transport/http/session"
)

type loginPage struct {
	Page
	Form   schema.LoginForm
	Errors schema.FieldErrors
}

func (h *Console) LoginPage(c *gin.Context) {
	if session.From(c).HasToken() {
		h.redirect(c, "/inventory")
		return
	}
	h.render(c, http.StatusOK, "login.html", loginPage{Page: h.page(c, "Login", "")})
}

func (h *Console) Login(c *gin.Context) {
	var raw schema.LoginForm
	_ = c.ShouldBind(&raw)
	form, errs := schema.ParseLogin(raw)
	data := loginPage{Page: h.page(c, "Login", ""), Form: form, Errors: errs}
	data.Form.Password = ""
	if !errs.OK() {
		h.render(c, http.StatusUnprocessableEntity, "login.html", data)
		return
	}

	tok, err := h.api.Login(c.Request.Context(), form)
	if err != nil {
		h.logFail(c, "login", err, zap.String("ident", form.LoginIdentifier))
		n := resp.Notify(resp.ActLogin, err)
		data.Notice = &n
		h.render(c, failure(err), "login.html", data)
		return
	}

	s := session.From(c)
	// 换一个 sid，上一位操作员的缓存不会被读到
	if err := h.query.Purge(c.Request.Context(), s.SID()); err != nil {
		h.log.Warn("purge cache failed", zap.String("sid", s.SID()), zap.Error(err))
	}
	s.RotateSID()
	s.SetToken(tok)
	h.log.Info("operator logged in", zap.String("ident", form.LoginIdentifier), zap.String("sid", s.SID()))
	h.redirect(c, "/inventory")
}

func (h *Console) Logout(c *gin.Context) {
	s := session.From(c)
	if err := h.query.Purge(c.Request.Context(), s.SID()); err != nil {
		h.log.Warn("purge cache failed", zap.String("sid", s.SID()), zap.Error(err))
	}
	s.ClearToken()
	s.RotateSID()
	h.flashTo(c, "/login", resp.ActLogout.Success())
}
