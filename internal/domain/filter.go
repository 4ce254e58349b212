package domain

import "strings"

// ProductFilter 列表页的客户端筛选条件
type ProductFilter struct {
	Query    string
	Category string // "" 或 "all" 表示不限
	Stock    StockFilter
}

// FilterProducts 名称/ID 不区分大小写子串匹配 + 分类 + 库存，且只保留未归档
func FilterProducts(in []Product, f ProductFilter) []Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	cat := strings.TrimSpace(f.Category)
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if p.IsArchived {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.ProductName), q) &&
			!strings.Contains(strings.ToLower(p.ProductID), q) {
			continue
		}
		if cat != "" && cat != "all" && p.Category != cat {
			continue
		}
		if !f.Stock.Match(p.Status()) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterUsers 按 "名 姓"、用户名、邮箱搜索，且只保留未归档
func FilterUsers(in []User, query string) []User {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]User, 0, len(in))
	for _, u := range in {
		if u.IsArchived {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(u.FullName()), q) &&
			!strings.Contains(strings.ToLower(u.Username), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func CountUsers(us []User) UserStats {
	s := UserStats{Total: len(us)}
	for _, u := range us {
		switch Role(u.Role) {
		case RoleAdmin:
			s.Admins++
		case RoleStaff:
			s.Staff++
		}
	}
	return s
}
