// Package view 控制台页面模板，编译进二进制
package view

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"

	"optical-console/internal/domain"
)

//go:embed templates/*.html
var files embed.FS

func Funcs() template.FuncMap {
	return template.FuncMap{
		"price":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"title":    Title,
		"badge":    Badge,
		"initials": func(u domain.User) string { return strings.ToUpper(u.Initials()) },
	}
}

// Load 解析全部模板；页面按文件名执行，如 "inventory.html"
func Load() (*template.Template, error) {
	t, err := template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	return t, nil
}

func Title(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Badge 库存状态对应的样式
func Badge(s domain.StockStatus) string {
	switch s {
	case domain.StockLow:
		return "badge-low"
	case domain.StockOverstocked:
		return "badge-over"
	default:
		return "badge-active"
	}
}
