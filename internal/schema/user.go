package schema

import (
	"strings"

	"optical-console/internal/domain"
)

// Mode 新建与编辑的校验强度不同
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// ContactNumberMin 联系电话最短长度
const ContactNumberMin = "11"

type UserForm struct {
	FirstName     string `form:"firstName"`
	MiddleName    string `form:"middleName"`
	LastName      string `form:"lastName"`
	Gender        string `form:"gender"`
	BirthDate     string `form:"birthDate"`
	Email         string `form:"email"`
	ContactNumber string `form:"contactNumber"`
	Username      string `form:"username"`
	Password      string `form:"password"`
	Role          string `form:"role"`
	IsArchived    bool   `form:"isArchived"`

	// ContactNumberWas 编辑页回填时的原号码，没改就不再校验也不提交
	ContactNumberWas string `form:"contactNumberWas"`
}

// 新建时必填，编辑时变成可选（空值跳过）
func need(mode Mode, tags string) string {
	if mode == ModeEdit {
		return "omitempty," + tags
	}
	return "required," + tags
}

func enumTag[T ~string](vals []T) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, string(v))
	}
	return "oneof=" + strings.Join(parts, " ")
}

// ParseUser 编辑模式下空白字段（包括密码）不会出现在提交体里
func ParseUser(in UserForm, mode Mode) (domain.UserPayload, FieldErrors) {
	f := UserForm{
		FirstName:     strings.TrimSpace(in.FirstName),
		MiddleName:    strings.TrimSpace(in.MiddleName),
		LastName:      strings.TrimSpace(in.LastName),
		Gender:        strings.TrimSpace(in.Gender),
		BirthDate:     strings.TrimSpace(in.BirthDate),
		Email:         strings.TrimSpace(in.Email),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Username:      strings.TrimSpace(in.Username),
		Password:      in.Password,
		Role:          strings.TrimSpace(in.Role),
		IsArchived:    in.IsArchived,
	}
	// 密码不 trim，但全空白视为没填
	if strings.TrimSpace(f.Password) == "" {
		f.Password = ""
	}

	errs := FieldErrors{}
	errs.check("firstName", "First name", f.FirstName, need(mode, "max=50"))
	errs.check("middleName", "Middle name", f.MiddleName, "omitempty,max=50")
	errs.check("lastName", "Last name", f.LastName, need(mode, "max=50"))
	errs.check("gender", "Gender", f.Gender, need(mode, enumTag(domain.Genders)))
	errs.check("birthDate", "Birth date", f.BirthDate, need(mode, "datetime=2006-01-02"))
	errs.check("email", "Email", f.Email, need(mode, "email"))
	if mode == ModeEdit && f.ContactNumber == strings.TrimSpace(in.ContactNumberWas) {
		f.ContactNumber = ""
	}
	errs.check("contactNumber", "Contact number", f.ContactNumber, need(mode, "min="+ContactNumberMin))
	errs.check("username", "Username", f.Username, need(mode, "min=3"))
	errs.check("password", "Password", f.Password, need(mode, "min=8"))
	errs.check("role", "Role", f.Role, need(mode, enumTag(domain.Roles)))
	if !errs.OK() {
		return domain.UserPayload{}, errs
	}

	archived := f.IsArchived
	return domain.UserPayload{
		FirstName:     f.FirstName,
		MiddleName:    f.MiddleName,
		LastName:      f.LastName,
		Gender:        f.Gender,
		BirthDate:     f.BirthDate,
		Email:         f.Email,
		ContactNumber: f.ContactNumber,
		Username:      f.Username,
		Password:      f.Password,
		Role:          f.Role,
		IsArchived:    &archived,
	}, errs
}

// UserFormFrom 编辑页回填；密码永远不回填
func UserFormFrom(u domain.User) UserForm {
	f := UserForm{
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Gender:        u.Gender,
		BirthDate:     birthDateOnly(u.BirthDate),
		Email:         u.Email,
		ContactNumber: u.ContactNumber,
		Username:      u.Username,
		Role:          u.Role,
		IsArchived:    u.IsArchived,

		ContactNumberWas: u.ContactNumber,
	}
	if u.MiddleName != nil {
		f.MiddleName = *u.MiddleName
	}
	return f
}

// 后端偶尔返回带时间的日期，<input type=date> 只认 YYYY-MM-DD
func birthDateOnly(s string) string {
	if len(s) > 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}

func NewUserForm() UserForm {
	return UserForm{Role: string(domain.RoleStaff)}
}

// LoginForm 登录表单
type LoginForm struct {
	LoginIdentifier string `form:"loginIdentifier" json:"loginIdentifier"`
	Password        string `form:"password" json:"password"`
}

func ParseLogin(in LoginForm) (LoginForm, FieldErrors) {
	f := LoginForm{LoginIdentifier: strings.TrimSpace(in.LoginIdentifier), Password: in.Password}
	errs := FieldErrors{}
	if f.LoginIdentifier == "" {
		errs.Add("loginIdentifier", "Username or email is required")
	}
	if f.Password == "" {
		errs.Add("password", "Password is required")
	}
	return f, errs
}
