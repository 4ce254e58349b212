package domain

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleStaff Role = "Staff"
)

var Roles = []Role{RoleAdmin, RoleStaff}

// User 后端返回的用户记录（不含密码）
type User struct {
	UserID        string  `json:"userId"`
	Username      string  `json:"username"`
	FirstName     string  `json:"firstName"`
	MiddleName    *string `json:"middleName"`
	LastName      string  `json:"lastName"`
	Gender        string  `json:"gender"`
	BirthDate     string  `json:"birthDate"`
	Email         string  `json:"email"`
	ContactNumber string  `json:"contactNumber"`
	Role          string  `json:"role"`
	IsArchived    bool    `json:"isArchived"`
	CreatedAt     string  `json:"createdAt"`
}

func (u User) FullName() string { return u.FirstName + " " + u.LastName }

func (u User) Initials() string {
	var out []rune
	for _, s := range []string{u.FirstName, u.LastName} {
		for _, r := range s {
			out = append(out, r)
			break
		}
	}
	return string(out)
}

// UserPayload 创建/更新的提交体。
// 编辑模式下空字段不出现在 JSON 里；Password 为空时一律省略（= 不修改）。
type UserPayload struct {
	FirstName     string `json:"firstName,omitempty"`
	MiddleName    string `json:"middleName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Gender        string `json:"gender,omitempty"`
	BirthDate     string `json:"birthDate,omitempty"`
	Email         string `json:"email,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	Role          string `json:"role,omitempty"`
	IsArchived    *bool  `json:"isArchived,omitempty"`
}

// UserStats 用户列表页顶部统计
type UserStats struct {
	Total  int
	Admins int
	Staff  int
}
