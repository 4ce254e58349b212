package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"optical-console/internal/domain"
	"optical-console/internal/schema"
	resp "optical-console/internal/transport/http/response"
)

type usersPage struct {
	Page
	Query string
	Stats domain.UserStats
	Users []domain.User
}

type userFormPage struct {
	Page
	Edit    bool
	Action  string
	Genders []domain.Gender
	Roles   []domain.Role
	Form    schema.UserForm
	Errors  schema.FieldErrors
}

// Users GET /users?q=；统计按当前可见的列表算
func (h *Console) Users(c *gin.Context) {
	data := usersPage{Page: h.page(c, "Users", "users"), Query: c.Query("q")}
	all, err := h.queries(c).Users(c.Request.Context())
	if err != nil {
		h.logFail(c, "list_users", err)
		n := resp.Notify(resp.ActLoadUsers, err)
		data.Notice = &n
		h.render(c, http.StatusOK, "users.html", data)
		return
	}
	data.Users = domain.FilterUsers(all, data.Query)
	data.Stats = domain.CountUsers(data.Users)
	h.render(c, http.StatusOK, "users.html", data)
}

func (h *Console) userForm(c *gin.Context, edit bool, action string, f schema.UserForm) userFormPage {
	title := "Add User"
	if edit {
		title = "Edit User"
	}
	f.Password = ""
	return userFormPage{
		Page:    h.page(c, title, "users"),
		Edit:    edit,
		Action:  action,
		Genders: domain.Genders,
		Roles:   domain.Roles,
		Form:    f,
	}
}

func (h *Console) NewUser(c *gin.Context) {
	h.render(c, http.StatusOK, "user_form.html",
		h.userForm(c, false, "/users/add", schema.NewUserForm()))
}

func (h *Console) CreateUser(c *gin.Context) {
	var f schema.UserForm
	_ = c.ShouldBind(&f)
	data := h.userForm(c, false, "/users/add", f)

	payload, errs := schema.ParseUser(f, schema.ModeCreate)
	if !errs.OK() {
		data.Errors = errs
		h.render(c, http.StatusUnprocessableEntity, "user_form.html", data)
		return
	}
	u, err := h.queries(c).CreateUser(c.Request.Context(), payload)
	if err != nil {
		h.logFail(c, "create_user", err)
		n := resp.Notify(resp.ActCreateUser, err)
		data.Notice = &n
		h.render(c, failure(err), "user_form.html", data)
		return
	}
	if u != nil {
		h.log.Info("user created", zap.String("id", u.UserID))
	}
	h.flashTo(c, "/users", resp.ActCreateUser.Success())
}

func (h *Console) EditUser(c *gin.Context) {
	id := c.Param("id")
	u, err := h.queries(c).User(c.Request.Context(), id)
	if err != nil {
		h.logFail(c, "get_user", err, zap.String("id", id))
		h.flashTo(c, "/users", resp.Notify(resp.ActLoadUser, err))
		return
	}
	h.render(c, http.StatusOK, "user_form.html",
		h.userForm(c, true, "/users/edit/"+id, schema.UserFormFrom(u)))
}

func (h *Console) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	var f schema.UserForm
	_ = c.ShouldBind(&f)
	data := h.userForm(c, true, "/users/edit/"+id, f)

	payload, errs := schema.ParseUser(f, schema.ModeEdit)
	if !errs.OK() {
		data.Errors = errs
		h.render(c, http.StatusUnprocessableEntity, "user_form.html", data)
		return
	}
	if _, err := h.queries(c).UpdateUser(c.Request.Context(), id, payload); err != nil {
		h.logFail(c, "update_user", err, zap.String("id", id))
		n := resp.Notify(resp.ActUpdateUser, err)
		data.Notice = &n
		h.render(c, failure(err), "user_form.html", data)
		return
	}
	h.flashTo(c, "/users", resp.ActUpdateUser.Success())
}

func (h *Console) ArchiveUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.queries(c).ArchiveUser(c.Request.Context(), id); err != nil {
		h.logFail(c, "archive_user", err, zap.String("id", id))
		h.flashTo(c, "/users", resp.Notify(resp.ActArchiveUser, err))
		return
	}
	h.flashTo(c, "/users", resp.ActArchiveUser.Success())
}
