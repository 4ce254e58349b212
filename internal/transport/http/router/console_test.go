package router

import (
	"html"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"optical-console/internal/api"
	"optical-console/internal/core/cache"
	"optical-console/internal/devapi"
	"optical-console/internal/query"
	"optical-console/internal/transport/http/response"
	"optical-console/internal/transport/http/session"
)

type browser struct {
	t    *testing.T
	base string
	hc   *http.Client
}

func newConsole(t *testing.T, backendURL string) *browser {
	t.Helper()
	eng, err := NewConsoleEngine(ConsoleDeps{
		API:        api.New(api.Options{BaseURL: backendURL, Timeout: 2 * time.Second}),
		Query:      query.New(cache.New(cache.NewMemoryStore(), time.Minute), nil),
		Sessions:   session.NewManager(session.Options{Secret: "console-test", MaxAge: 3600}, nil),
		LoginRate:  rate.Inf,
		LoginBurst: 1,
	})
	require.NoError(t, err)
	srv := httptest.NewServer(eng)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: srv.URL, hc: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

// hits 按 "METHOD path" 记录后端收到的请求
type hits struct {
	mu sync.Mutex
	m  map[string]int
}

func (h *hits) get(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.m[key]
}

// 后端用真实的 devapi 引擎
func newBackend(t *testing.T) string {
	u, _ := newCountedBackend(t)
	return u
}

func newCountedBackend(t *testing.T) (string, *hits) {
	t.Helper()
	h := &hits{m: map[string]int{}}
	eng := newDevAPI(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.m[r.Method+" "+r.URL.Path]++
		h.mu.Unlock()
		eng.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv.URL, h
}

func (b *browser) get(path string) (int, string, string) {
	b.t.Helper()
	res, err := b.hc.Get(b.base + path)
	require.NoError(b.t, err)
	return read(b.t, res)
}

func (b *browser) post(path string, form url.Values) (int, string, string) {
	b.t.Helper()
	res, err := b.hc.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return read(b.t, res)
}

func read(t *testing.T, res *http.Response) (int, string, string) {
	t.Helper()
	defer res.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := res.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return res.StatusCode, res.Header.Get("Location"), sb.String()
}

func (b *browser) login() {
	b.t.Helper()
	code, loc, body := b.post("/login", url.Values{
		"loginIdentifier": {devapi.SeedUsername},
		"password":        {devapi.SeedPassword},
	})
	require.Equal(b.t, http.StatusSeeOther, code, body)
	require.Equal(b.t, "/inventory", loc)
}

var dataID = regexp.MustCompile(`data-id="([^"]+)"`)

func productForm(name, qty, low, over string) url.Values {
	return url.Values{
		"productName":          {name},
		"category":             {"lens"},
		"supplier":             {"Acme Optics"},
		"unitPrice":            {"1250.5"},
		"quantity":             {qty},
		"lowLevelThreshold":    {low},
		"overstockedThreshold": {over},
	}
}

func TestConsole_RedirectsToLoginWithoutToken(t *testing.T) {
	b := newConsole(t, newBackend(t))
	for _, p := range []string{"/", "/inventory", "/inventory/add", "/users", "/users/edit/x"} {
		code, loc, _ := b.get(p)
		assert.Equal(t, http.StatusSeeOther, code, p)
		assert.Equal(t, "/login", loc, p)
	}
	code, _, body := b.get("/login")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `name="loginIdentifier"`)

	code, _, _ = b.get("/health")
	assert.Equal(t, http.StatusOK, code)
}

func TestConsole_Login(t *testing.T) {
	b := newConsole(t, newBackend(t))

	code, _, body := b.post("/login", url.Values{})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "Username or email is required")
	assert.Contains(t, body, "Password is required")

	code, _, body = b.post("/login", url.Values{"loginIdentifier": {"admin"}, "password": {"nope-nope"}})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, body, "Login failed")
	assert.Contains(t, body, devapi.InvalidCredentials)
	assert.Contains(t, body, `value="admin"`, "identifier is kept")

	b.login()
	code, loc, _ := b.get("/login")
	assert.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/inventory", loc)

	code, _, body = b.get("/inventory")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Manage Inventory")
	assert.Contains(t, body, `<div class="operator-name">admin</div>`)
	assert.Contains(t, body, `<small class="operator-role">Admin</small>`)
}

func TestConsole_NetworkFailure(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	b := newConsole(t, deadURL)
	code, _, body := b.post("/login", url.Values{"loginIdentifier": {"admin"}, "password": {"whatever1"}})
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, body, response.NetworkMessage)
}

func TestConsole_ProductFlow(t *testing.T) {
	backend, seen := newCountedBackend(t)
	b := newConsole(t, backend)
	b.login()

	code, _, body := b.get("/inventory")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "No products found.")

	code, _, body = b.post("/inventory/add", productForm("Blue Cut Lens", "20", "10", "5"))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "Overstock threshold must be greater than low stock threshold")
	assert.Contains(t, body, `value="Blue Cut Lens"`)
	assert.Equal(t, 0, seen.get("POST /api/products"), "invalid form never reaches the backend")

	code, loc, _ := b.post("/inventory/add", productForm("Blue Cut Lens", "20", "5", "50"))
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/inventory", loc)
	assert.Equal(t, 1, seen.get("POST /api/products"))

	_, _, body = b.get("/inventory")
	assert.Contains(t, body, "Product Added")
	assert.Contains(t, body, "Blue Cut Lens")
	assert.Contains(t, body, "1250.50")
	assert.Contains(t, body, "Active")
	m := dataID.FindStringSubmatch(body)
	require.Len(t, m, 2)
	id := m[1]

	_, _, body = b.get("/inventory")
	assert.NotContains(t, body, "Product Added", "flash shows once")

	_, _, body = b.get("/inventory?q=frame")
	assert.Contains(t, body, "No products found.")
	_, _, body = b.get("/inventory?q=BLUE&category=lens")
	assert.Contains(t, body, "Blue Cut Lens")
	_, _, body = b.get("/inventory?stock=low_stock")
	assert.Contains(t, body, "No products found.")

	code, _, body = b.get("/inventory/edit/" + id)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `value="1250.5"`)
	assert.Contains(t, body, `value="20"`)

	code, loc, _ = b.post("/inventory/edit/"+id, productForm("Blue Cut Lens", "3", "5", "50"))
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/inventory", loc)
	_, _, body = b.get("/inventory?stock=low_stock")
	assert.Contains(t, body, "Product Updated")
	assert.Contains(t, body, "Low Stock")

	code, loc, _ = b.post("/inventory/"+id+"/archive", nil)
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/inventory", loc)
	_, _, body = b.get("/inventory")
	assert.Contains(t, body, "Product Archived")
	assert.NotContains(t, body, "Blue Cut Lens")

	code, loc, _ = b.get("/inventory/edit/missing")
	assert.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/inventory", loc)
	_, _, body = b.get("/inventory")
	assert.Contains(t, body, "Failed to load product. Please try again.")
}

func userForm(username, email, pw string) url.Values {
	return url.Values{
		"firstName":     {"Maria"},
		"lastName":      {"Torres"},
		"gender":        {"Female"},
		"birthDate":     {"1991-04-12"},
		"email":         {email},
		"contactNumber": {"09171234567"},
		"username":      {username},
		"password":      {pw},
		"role":          {"Staff"},
	}
}

func TestConsole_UserFlow(t *testing.T) {
	b := newConsole(t, newBackend(t))
	b.login()

	_, _, body := b.get("/users")
	assert.Contains(t, body, `<strong class="stat-total">1</strong>`)
	assert.Contains(t, body, `<strong class="stat-admins">1</strong>`)

	code, _, body := b.post("/users/add", userForm("mt", "not-an-email", "short"))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "field-error")
	assert.NotContains(t, body, `value="short"`, "password is never echoed")

	code, loc, _ := b.post("/users/add", userForm("mtorres", "maria@example.com", "s3cretpass"))
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/users", loc)

	_, _, body = b.get("/users")
	assert.Contains(t, body, "User Created")
	assert.Contains(t, body, "Maria Torres")
	assert.Contains(t, body, `<strong class="stat-staff">1</strong>`)

	// 重复用户名：后端 409，页面给通用失败提示
	code, _, body = b.post("/users/add", userForm("mtorres", "again@example.com", "s3cretpass"))
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, body, "Failed to create user. Please try again.")

	_, _, body = b.get("/users?q=maria@")
	ids := dataID.FindAllStringSubmatch(body, -1)
	require.Len(t, ids, 1)
	id := ids[0][1]

	code, _, body = b.get("/users/edit/" + id)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `value="1991-04-12"`)
	assert.Contains(t, body, "Leave blank to keep current password")

	code, loc, _ = b.post("/users/edit/"+id, url.Values{"role": {"Admin"}})
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/users", loc)
	_, _, body = b.get("/users")
	assert.Contains(t, body, "User Updated")
	assert.Contains(t, body, `<strong class="stat-admins">2</strong>`)

	code, loc, _ = b.post("/users/"+id+"/archive", nil)
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/users", loc)
	_, _, body = b.get("/users")
	assert.Contains(t, body, "User Archived")
	assert.NotContains(t, body, "Maria Torres")
}

var (
	inputField = regexp.MustCompile(`<input(?: type="(?:date|email|hidden)")? name="([^"]+)" value="([^"]*)"`)
	selected   = regexp.MustCompile(`<option value="([^"]+)" selected>`)
)

// 把编辑页原样回填的值收集成表单
func prefilled(t *testing.T, body string) url.Values {
	t.Helper()
	form := url.Values{}
	for _, m := range inputField.FindAllStringSubmatch(body, -1) {
		form.Set(m[1], html.UnescapeString(m[2]))
	}
	opts := selected.FindAllStringSubmatch(body, -1)
	require.Len(t, opts, 2, "gender and role are preselected")
	form.Set("gender", opts[0][1])
	form.Set("role", opts[1][1])
	return form
}

func TestConsole_SaveUnchangedSeedAdmin(t *testing.T) {
	b := newConsole(t, newBackend(t))
	b.login()

	_, _, body := b.get("/users")
	ids := dataID.FindAllStringSubmatch(body, -1)
	require.Len(t, ids, 1)
	id := ids[0][1]

	code, _, body := b.get("/users/edit/" + id)
	require.Equal(t, http.StatusOK, code)
	form := prefilled(t, body)
	assert.Equal(t, devapi.SeedUsername, form.Get("username"))
	assert.Equal(t, form.Get("contactNumber"), form.Get("contactNumberWas"))

	code, loc, body := b.post("/users/edit/"+id, form)
	require.Equal(t, http.StatusSeeOther, code, body)
	assert.Equal(t, "/users", loc)
	_, _, body = b.get("/users")
	assert.Contains(t, body, "User Updated")
}

func TestConsole_Logout(t *testing.T) {
	b := newConsole(t, newBackend(t))
	b.login()

	code, loc, _ := b.post("/logout", nil)
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/login", loc)

	code, _, body := b.get("/login")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Logged Out")

	code, loc, _ = b.get("/inventory")
	assert.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/login", loc)
}
