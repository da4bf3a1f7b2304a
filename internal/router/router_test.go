package router

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"Hyeyum_Board/internal/config"
	"Hyeyum_Board/internal/model"
	"Hyeyum_Board/internal/pkg"
	"Hyeyum_Board/internal/repository/mysql"
	"Hyeyum_Board/internal/service"
	"Hyeyum_Board/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const locale = "ko"

func init() {
	gin.SetMode(gin.TestMode)
}

type app struct {
	srv    *httptest.Server
	handle *mysql.Handle
	users  *mysql.UserRepository
	posts  *mysql.PostRepository
	auth   *service.AuthService
}

func newApp(t *testing.T, h *mysql.Handle) *app {
	t.Helper()
	users := mysql.NewUserRepository(h)
	posts := mysql.NewPostRepository(h)
	logs := mysql.NewLogRepository(h)
	audit := service.NewAuditService(logs, nil)
	auth := service.NewAuthService(users, audit)

	store, err := NewSessionStore(&config.Config{Secret: "test-secret"})
	require.NoError(t, err)
	r, err := InitRouter(Options{
		Locale:   locale,
		Sessions: store,
		Auth:     auth,
		Board:    service.NewBoardService(posts, audit, nil),
		Admin:    service.NewAdminService(users, logs),
		Health:   h,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &app{srv: srv, handle: h, users: users, posts: posts, auth: auth}
}

// account 直接走服务层建号，admin 标记手动改库
func (a *app) account(t *testing.T, username string, admin bool) {
	t.Helper()
	u, err := a.auth.Signup(context.Background(), username, username, "pass")
	require.NoError(t, err)
	if admin {
		db, err := a.handle.DB(context.Background())
		require.NoError(t, err)
		require.NoError(t, db.Model(u).Update("is_admin", true).Error)
	}
}

func (a *app) latestPost(t *testing.T) model.Post {
	t.Helper()
	list, err := a.posts.ListByDateDesc(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)
	return list[0]
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func (a *app) client(t *testing.T) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{
		t:    t,
		base: a.srv.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type response struct {
	status   int
	body     string
	location string
	header   http.Header
}

func (c *client) do(req *http.Request) response {
	c.t.Helper()
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return response{
		status:   resp.StatusCode,
		body:     string(body),
		location: resp.Header.Get("Location"),
		header:   resp.Header,
	}
}

func (c *client) get(path string) response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	require.NoError(c.t, err)
	return c.do(req)
}

func (c *client) post(path string, form url.Values) response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) login(username, password string) {
	c.t.Helper()
	res := c.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(c.t, http.StatusFound, res.status)
	require.Equal(c.t, "/", res.location)
}

func TestWriterScenario(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	c := a.client(t)

	res := c.post("/signup", url.Values{"username": {"writer"}, "name": {"Writer Kim"}, "password": {"pass"}})
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, "/login", res.location)
	assert.Contains(t, c.get("/login").body, pkg.L(locale, pkg.MsgSignupDone))

	// 注册后不会自动登录
	assert.NotContains(t, c.get("/").body, "Writer Kim")

	c.login("writer", "pass")
	assert.Contains(t, c.get("/").body, "Writer Kim")

	res = c.post("/post/new", url.Values{"title": {"Test Post"}, "content": {"This is a test content"}})
	assert.Equal(t, http.StatusFound, res.status)
	index := c.get("/").body
	assert.Contains(t, index, "Test Post")
	assert.Contains(t, index, pkg.L(locale, pkg.MsgPostCreated))

	post := a.latestPost(t)
	path := fmt.Sprintf("/post/%d", post.ID)
	res = c.get(path)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "This is a test content")

	res = c.get(path + "/update")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Test Post")

	res = c.post(path+"/update", url.Values{
		"title":       {"Updated Post"},
		"content":     {"Updated content"},
		"author_id":   {"999"},
		"author_name": {"Mallory"},
		"date_posted": {"2000-01-01T00:00:00Z"},
	})
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, path, res.location)
	assert.Contains(t, c.get(path).body, "Updated Post")

	updated := a.latestPost(t)
	assert.Equal(t, post.AuthorID, updated.AuthorID)
	assert.Equal(t, "Writer Kim", updated.AuthorName)
	assert.True(t, post.DatePosted.Equal(updated.DatePosted))

	res = c.post(path+"/delete", nil)
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, "/", res.location)
	assert.Equal(t, http.StatusNotFound, c.get(path).status)
	assert.NotContains(t, c.get("/").body, "Updated Post")

	res = c.get("/logout")
	assert.Equal(t, http.StatusFound, res.status)
	assert.NotContains(t, c.get("/").body, "Writer Kim")
}

func TestAdminOverride(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	a.account(t, "user", false)
	a.account(t, "admin_boss", true)
	a.account(t, "other", false)

	owner := a.client(t)
	owner.login("user", "pass")
	owner.post("/post/new", url.Values{"title": {"Mine"}, "content": {"content"}})
	path := fmt.Sprintf("/post/%d", a.latestPost(t).ID)

	other := a.client(t)
	other.login("other", "pass")
	assert.Equal(t, http.StatusForbidden, other.get(path+"/update").status)
	assert.Equal(t, http.StatusForbidden, other.post(path+"/update", url.Values{"title": {"x"}, "content": {"y"}}).status)
	assert.Equal(t, http.StatusForbidden, other.post(path+"/delete", nil).status)
	assert.NotContains(t, other.get(path).body, "/delete")

	boss := a.client(t)
	boss.login("admin_boss", "pass")
	assert.Contains(t, boss.get(path).body, "/delete")
	res := boss.post(path+"/update", url.Values{"title": {"Moderated"}, "content": {"content"}})
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, "Moderated", a.latestPost(t).Title)
	assert.Equal(t, "user", a.latestPost(t).AuthorName)

	res = boss.post(path+"/delete", nil)
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, http.StatusNotFound, owner.get(path).status)

	// 不存在的帖子：先 404，而不是 403
	assert.Equal(t, http.StatusNotFound, other.post(path+"/delete", nil).status)
}

func TestLoginRejectionIsGeneric(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	a.account(t, "writer", false)

	flashOf := func(form url.Values) string {
		c := a.client(t)
		res := c.post("/login", form)
		require.Equal(t, http.StatusFound, res.status)
		require.Equal(t, "/login", res.location)
		return c.get("/login").body
	}
	wrong := flashOf(url.Values{"username": {"writer"}, "password": {"nope"}})
	unknown := flashOf(url.Values{"username": {"ghost"}, "password": {"pass"}})

	msg := pkg.L(locale, pkg.MsgLoginFailed)
	assert.Contains(t, wrong, msg)
	assert.Contains(t, unknown, msg)
	assert.Equal(t, wrong, unknown)
}

func TestLogin_remember(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	a.account(t, "writer", false)

	c := a.client(t)
	res := c.post("/login", url.Values{"username": {"writer"}, "password": {"pass"}, "remember": {"1"}})
	assert.Contains(t, res.header.Get("Set-Cookie"), "Max-Age=2592000")

	// 之后写入提示消息时不能把有效期重置掉
	res = c.post("/post/new", url.Values{"title": {"t"}, "content": {"c"}})
	assert.Equal(t, http.StatusFound, res.status)
	assert.Contains(t, res.header.Get("Set-Cookie"), "Max-Age=2592000")

	c = a.client(t)
	res = c.post("/login", url.Values{"username": {"writer"}, "password": {"pass"}})
	assert.NotContains(t, res.header.Get("Set-Cookie"), "Max-Age")

	// 已登录访问登录页直接回首页
	res = c.get("/login")
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, "/", res.location)
}

func TestSignup_duplicateAndBlank(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	a.account(t, "writer", false)
	c := a.client(t)

	assert.Equal(t, http.StatusOK, c.get("/signup").status)

	res := c.post("/signup", url.Values{"username": {"writer"}, "name": {"Another"}, "password": {"x"}})
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, "/signup", res.location)
	assert.Contains(t, c.get("/signup").body, pkg.L(locale, pkg.MsgSignupTaken))

	res = c.post("/signup", url.Values{"username": {"newbie"}, "name": {""}, "password": {"x"}})
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, pkg.L(locale, pkg.MsgSignupBlank))
	assert.Contains(t, res.body, `value="newbie"`)

	users, err := a.users.ListUnordered(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreate_validation(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	a.account(t, "writer", false)
	c := a.client(t)
	c.login("writer", "pass")

	res := c.post("/post/new", url.Values{"title": {"   "}, "content": {"body text"}})
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, pkg.L(locale, pkg.MsgPostBlank))
	assert.Contains(t, res.body, "body text")

	list, err := a.posts.ListUnordered(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPostForm_tooLong(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	a.account(t, "writer", false)
	c := a.client(t)
	c.login("writer", "pass")

	long := strings.Repeat("가", model.MaxTitleLen+1)
	res := c.post("/post/new", url.Values{"title": {long}, "content": {"body text"}})
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, pkg.L(locale, pkg.MsgPostTooLong))
	assert.NotContains(t, res.body, pkg.L(locale, pkg.MsgStoreUnavailable))

	list, err := a.posts.ListUnordered(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	res = c.post("/post/new", url.Values{"title": {"short"}, "content": {"body text"}})
	require.Equal(t, http.StatusFound, res.status)
	post := a.latestPost(t)
	res = c.post(fmt.Sprintf("/post/%d/update", post.ID), url.Values{"title": {long}, "content": {"body text"}})
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, pkg.L(locale, pkg.MsgPostTooLong))
	assert.Equal(t, "short", a.latestPost(t).Title)
}

func TestSignup_tooLong(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	c := a.client(t)

	long := strings.Repeat("u", model.MaxUsernameLen+1)
	res := c.post("/signup", url.Values{"username": {long}, "name": {"Writer"}, "password": {"pass"}})
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, pkg.L(locale, pkg.MsgSignupTooLong))
	assert.NotContains(t, res.body, pkg.L(locale, pkg.MsgStoreUnavailable))

	users, err := a.users.ListUnordered(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLogin_trimsUsername(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	a.account(t, "writer", false)
	c := a.client(t)

	c.login("  writer ", "pass")
	assert.Equal(t, http.StatusOK, c.get("/post/new").status)
}

func TestAnonymousAccess(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	c := a.client(t)

	for _, path := range []string{"/post/new", "/logout", "/admin", "/post/1/update"} {
		res := c.get(path)
		assert.Equal(t, http.StatusFound, res.status, path)
		assert.Equal(t, "/login", res.location, path)
	}
	res := c.post("/post/1/delete", nil)
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, "/login", res.location)
	assert.Contains(t, c.get("/login").body, pkg.L(locale, pkg.MsgLoginRequired))

	assert.Equal(t, http.StatusNotFound, c.get("/post/999").status)
	assert.Equal(t, http.StatusNotFound, c.get("/post/abc").status)

	res = c.get("/board")
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, "/", res.location)

	res = c.get("/health")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "ok", res.body)
}

func TestAdminDashboard(t *testing.T) {
	a := newApp(t, testutil.OpenHandle(t))
	a.account(t, "writer", false)

	c := a.client(t)
	// 首页访问会创建默认管理员
	assert.Equal(t, http.StatusOK, c.get("/").status)
	assert.Equal(t, http.StatusOK, c.get("/").status)
	admins := 0
	users, err := a.users.ListUnordered(context.Background())
	require.NoError(t, err)
	for _, u := range users {
		if u.IsAdmin {
			admins++
			assert.Equal(t, service.DefaultAdminUsername, u.Username)
		}
	}
	assert.Equal(t, 1, admins)

	c.login("writer", "pass")
	assert.Equal(t, http.StatusForbidden, c.get("/admin").status)

	boss := a.client(t)
	boss.login(service.DefaultAdminUsername, service.DefaultAdminPassword)
	res := boss.get("/admin")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "writer")
	assert.Contains(t, res.body, model.ActionAdminBootstrap)
	assert.Contains(t, res.body, model.ActionLogin)
	assert.Equal(t, 2, strings.Count(res.body, `class="user-row"`))
}

func TestStoreUnavailable(t *testing.T) {
	a := newApp(t, mysql.Unconfigured())
	c := a.client(t)

	res := c.get("/")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, pkg.L(locale, pkg.MsgStoreUnavailable))

	res = c.post("/signup", url.Values{"username": {"writer"}, "name": {"W"}, "password": {"pass"}})
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, "/signup", res.location)
	assert.Contains(t, c.get("/signup").body, pkg.L(locale, pkg.MsgStoreUnavailable))

	res = c.post("/login", url.Values{"username": {"writer"}, "password": {"pass"}})
	assert.Equal(t, "/login", res.location)

	assert.Equal(t, http.StatusNotFound, c.get("/post/1").status)
	assert.Equal(t, http.StatusServiceUnavailable, c.get("/health").status)
}
