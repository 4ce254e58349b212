package view

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optical-console/internal/core/auth"
	"optical-console/internal/domain"
	"optical-console/internal/schema"
)

func TestLoad_AllPages(t *testing.T) {
	tpl, err := Load()
	require.NoError(t, err)
	for _, name := range []string{"login.html", "inventory.html", "product_form.html", "users.html", "user_form.html", "header", "footer"} {
		assert.NotNil(t, tpl.Lookup(name), name)
	}
}

func TestLogin_RendersFieldErrors(t *testing.T) {
	tpl, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tpl.ExecuteTemplate(&buf, "login.html", map[string]any{
		"Title":    "Login",
		"Nav":      "",
		"Operator": auth.Operator{},
		"Form":     schema.LoginForm{LoginIdentifier: "<admin>"},
		"Errors":   schema.FieldErrors{"password": "Password is required"},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Password is required")
	assert.Contains(t, out, "&lt;admin&gt;", "values are escaped")
	assert.NotContains(t, out, "Manage Inventory", "no side nav before login")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "Frames", Title("frames"))
	assert.Equal(t, "", Title(""))
	assert.Equal(t, "badge-low", Badge(domain.StockLow))
	assert.Equal(t, "badge-over", Badge(domain.StockOverstocked))
	assert.Equal(t, "badge-active", Badge(domain.StockActive))
	assert.Equal(t, "1250.50", Funcs()["price"].(func(float64) string)(1250.5))
}
