package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors 字段名 -> 提示文案。空 map 表示校验通过。
type FieldErrors map[string]string

func (fe FieldErrors) OK() bool { return len(fe) == 0 }

// Add 同一字段只保留第一条
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

func (fe FieldErrors) Get(field string) string { return fe[field] }

var (
	decimalRe = regexp.MustCompile(`^(?:\d+\.?\d*|\d*\.\d+)$`)
	integerRe = regexp.MustCompile(`^\d+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		return decimalRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("wholenumber", func(fl validator.FieldLevel) bool {
		return integerRe.MatchString(fl.Field().String())
	})
	// 能解析成数字且小于 0 才算失败，其余交给 decimal/wholenumber
	_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(fl.Field().String(), 64)
		return err != nil || n >= 0
	})
	return v
}

// 个别字段的定制文案，key 为 field.tag
var overrides = map[string]string{
	"contactNumber.min": "Contact number must be at least %s digits",
	"email.email":       "Invalid email address",
}

// check 用 validator 的 tag 串校验单个值，失败时写入第一条文案
func (fe FieldErrors) check(field, label, value, tags string) {
	err := validate.Var(value, tags)
	if err == nil {
		return
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		fe.Add(field, label+" is invalid")
		return
	}
	fe.Add(field, message(field, label, ves[0]))
}

func message(field, label string, e validator.FieldError) string {
	if tpl, ok := overrides[field+"."+e.Tag()]; ok {
		if strings.Contains(tpl, "%s") {
			return fmt.Sprintf(tpl, e.Param())
		}
		return tpl
	}
	switch e.Tag() {
	case "required":
		return label + " is required"
	case "decimal":
		return label + " must be a valid number"
	case "wholenumber":
		return label + " must be a whole number"
	case "nonnegative":
		return label + " cannot be negative"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(e.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, e.Param())
	case "datetime":
		return label + " must be a valid date (YYYY-MM-DD)"
	case "email":
		return "Invalid email address"
	}
	return label + " is invalid"
}
