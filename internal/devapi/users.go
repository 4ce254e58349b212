package devapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"optical-console/internal/domain"
	"optical-console/internal/repo"
	"optical-console/internal/transport/http/ez"
	"optical-console/pkg/utils"
)

// DuplicateUser 用户名或邮箱冲突
const DuplicateUser = "Username or email already exists"

type UserModule struct{ d Deps }

// 后端的联系电话最短 10 位，控制台表单更严（11 位）
type userCreateIn struct {
	FirstName     string `json:"firstName"     binding:"required,max=50"`
	MiddleName    string `json:"middleName"    binding:"omitempty,max=50"`
	LastName      string `json:"lastName"      binding:"required,max=50"`
	Gender        string `json:"gender"        binding:"required,oneof=Male Female Other"`
	BirthDate     string `json:"birthDate"     binding:"required,datetime=2006-01-02"`
	Email         string `json:"email"         binding:"required,email"`
	ContactNumber string `json:"contactNumber" binding:"required,min=11,max=32"`
	Username      string `json:"username"      binding:"required,min=3,max=64"`
	Password      string `json:"password"      binding:"required,min=8"`
	Role          string `json:"role"          binding:"required,oneof=Admin Staff"`
	IsArchived    bool   `json:"isArchived"`
}

// userUpdateIn 部分更新，缺省字段保持原值；password 仅在出现时重设
type userUpdateIn struct {
	FirstName     string `json:"firstName"     binding:"omitempty,max=50"`
	MiddleName    string `json:"middleName"    binding:"omitempty,max=50"`
	LastName      string `json:"lastName"      binding:"omitempty,max=50"`
	Gender        string `json:"gender"        binding:"omitempty,oneof=Male Female Other"`
	BirthDate     string `json:"birthDate"     binding:"omitempty,datetime=2006-01-02"`
	Email         string `json:"email"         binding:"omitempty,email"`
	ContactNumber string `json:"contactNumber" binding:"omitempty,min=11,max=32"`
	Username      string `json:"username"      binding:"omitempty,min=3,max=64"`
	Password      string `json:"password"      binding:"omitempty,min=8"`
	Role          string `json:"role"          binding:"omitempty,oneof=Admin Staff"`
	IsArchived    *bool  `json:"isArchived"`
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func findUser(c *gin.Context, tx *gorm.DB) (*repo.UserModel, error) {
	u, err := repo.NewUserRepo(tx).FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, ez.Internal("load user failed", err)
	}
	if u == nil {
		return nil, ez.NotFound("user not found")
	}
	return u, nil
}

func (m *UserModule) Mount(_, authed *gin.RouterGroup) {
	g := ez.New(authed)
	db := m.d.DB

	ez.RegisterAction[struct{}, []domain.User](g, db, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.User, error) {
			us, err := repo.NewUserRepo(tx).List(c.Request.Context())
			if err != nil {
				return nil, ez.Internal("list users failed", err)
			}
			out := make([]domain.User, 0, len(us))
			for _, u := range us {
				out = append(out, u.ToDomain())
			}
			return out, nil
		},
	})

	ez.RegisterAction[struct{}, domain.User](g, db, ez.Action[struct{}, domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (domain.User, error) {
			u, err := findUser(c, tx)
			if err != nil {
				return domain.User{}, err
			}
			return u.ToDomain(), nil
		},
	})

	ez.RegisterAction[userCreateIn, domain.User](g, db, ez.Action[userCreateIn, domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, tx *gorm.DB, in *userCreateIn) (domain.User, error) {
			hash, err := utils.HashPassword(in.Password)
			if err != nil {
				return domain.User{}, ez.Internal("hash password failed", err)
			}
			u := repo.UserModel{
				UserID:        utils.NewID(),
				Username:      strings.TrimSpace(in.Username),
				FirstName:     strings.TrimSpace(in.FirstName),
				MiddleName:    optional(in.MiddleName),
				LastName:      strings.TrimSpace(in.LastName),
				Gender:        in.Gender,
				BirthDate:     in.BirthDate,
				Email:         strings.TrimSpace(in.Email),
				ContactNumber: strings.TrimSpace(in.ContactNumber),
				PasswordHash:  hash,
				Role:          in.Role,
				IsArchived:    in.IsArchived,
			}
			if err := repo.NewUserRepo(tx).Create(c.Request.Context(), &u); err != nil {
				if ez.IsDupKey(err) {
					return domain.User{}, ez.Conflict(DuplicateUser)
				}
				return domain.User{}, ez.Internal("create user failed", err)
			}
			m.d.Log.Info("user created", zap.String("id", u.UserID), zap.String("role", u.Role))
			return u.ToDomain(), nil
		},
	})

	ez.RegisterAction[userUpdateIn, domain.User](g, db, ez.Action[userUpdateIn, domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *userUpdateIn) (domain.User, error) {
			u, err := findUser(c, tx)
			if err != nil {
				return domain.User{}, err
			}
			setIf(&u.FirstName, in.FirstName)
			setIf(&u.LastName, in.LastName)
			setIf(&u.Gender, in.Gender)
			setIf(&u.BirthDate, in.BirthDate)
			setIf(&u.Email, in.Email)
			setIf(&u.ContactNumber, in.ContactNumber)
			setIf(&u.Username, in.Username)
			setIf(&u.Role, in.Role)
			if mid := optional(in.MiddleName); mid != nil {
				u.MiddleName = mid
			}
			if in.IsArchived != nil {
				u.IsArchived = *in.IsArchived
			}
			if in.Password != "" {
				hash, err := utils.HashPassword(in.Password)
				if err != nil {
					return domain.User{}, ez.Internal("hash password failed", err)
				}
				u.PasswordHash = hash
			}
			if err := repo.NewUserRepo(tx).Update(c.Request.Context(), u); err != nil {
				if ez.IsDupKey(err) {
					return domain.User{}, ez.Conflict(DuplicateUser)
				}
				return domain.User{}, ez.Internal("update user failed", err)
			}
			return u.ToDomain(), nil
		},
	})

	ez.RegisterAction[struct{}, struct{}](g, db, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (struct{}, error) {
			if _, err := findUser(c, tx); err != nil {
				return struct{}{}, err
			}
			if err := repo.NewUserRepo(tx).Archive(c.Request.Context(), c.Param("id")); err != nil {
				return struct{}{}, ez.Internal("archive user failed", err)
			}
			return struct{}{}, nil
		},
	})
}
