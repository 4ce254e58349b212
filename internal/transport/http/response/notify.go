package response

import (
	"errors"

	"optical-console/internal/api"
	"optical-console/internal/query"
)

const (
	KindSuccess = "success"
	KindError   = "error"
)

// NetworkMessage 连接失败 / 超时时统一展示
const NetworkMessage = "Could not connect to the server. Please check your network."

// PendingMessage 重复提交
const PendingMessage = "A submission is already in progress"

// Notification 页面顶部的提示条
type Notification struct {
	Kind        string
	Title       string
	Description string
}

// Action 一个用户操作的成功 / 失败文案
type Action struct {
	SuccessTitle string
	SuccessDesc  string
	FailDesc     string
}

var (
	ActCreateProduct  = Action{"Product Added", "The product has been successfully added to inventory.", "Failed to add product. Please try again."}
	ActUpdateProduct  = Action{"Product Updated", "Successfully updated.", "Failed to update product. Please try again."}
	ActArchiveProduct = Action{"Product Archived", "The product has been successfully archived.", "Failed to archive product. Please try again."}
	ActCreateUser     = Action{"User Created", "The new user account has been successfully created.", "Failed to create user. Please try again."}
	ActUpdateUser     = Action{"User Updated", "The user account has been successfully updated.", "Failed to update user. Please try again."}
	ActArchiveUser    = Action{"User Archived", "The user account has been successfully archived.", "Failed to archive user. Please try again."}
	ActLoadProducts   = Action{FailDesc: "Failed to load products. Please try again."}
	ActLoadProduct    = Action{FailDesc: "Failed to load product. Please try again."}
	ActLoadUsers      = Action{FailDesc: "Failed to load users. Please try again."}
	ActLoadUser       = Action{FailDesc: "Failed to load user. Please try again."}
	ActLogin          = Action{FailDesc: "Failed to log in. Please try again."}
	ActLogout         = Action{SuccessTitle: "Logged Out", SuccessDesc: "You have been successfully logged out."}
)

func (a Action) Success() Notification {
	return Notification{Kind: KindSuccess, Title: a.SuccessTitle, Description: a.SuccessDesc}
}

// Notify 把远端错误翻译成用户可见的提示；401（登录以外）按普通失败处理
func Notify(a Action, err error) Notification {
	n := Notification{Kind: KindError, Title: "Error", Description: a.FailDesc}
	var ce *api.CredentialsError
	switch {
	case errors.As(err, &ce):
		n.Title, n.Description = "Login failed", ce.Message
	case errors.Is(err, api.ErrNetwork):
		n.Title, n.Description = "Network error", NetworkMessage
	case errors.Is(err, query.ErrPending):
		n.Title, n.Description = "Please wait", PendingMessage
	}
	return n
}
