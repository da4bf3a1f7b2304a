package router

import (
	"embed"
	"html/template"
	"time"

	"Hyeyum_Board/internal/config"
	"Hyeyum_Board/internal/handler"
	"Hyeyum_Board/internal/middleware"
	"Hyeyum_Board/internal/model"
	"Hyeyum_Board/internal/pkg"
	"Hyeyum_Board/internal/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	sessionsRedis "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templates embed.FS

type Options struct {
	Locale   string
	Sessions sessions.Store
	Auth     *service.AuthService
	Board    *service.BoardService
	Admin    *service.AdminService
	Health   handler.Pinger
}

// LoadTemplates 解析内嵌模板，文案按 locale 渲染
func LoadTemplates(locale string) (*template.Template, error) {
	funcs := template.FuncMap{
		"t":      func(id string) string { return pkg.L(locale, id) },
		"locale": func() string { return locale },
		"date": func(t time.Time) string {
			return t.In(model.KST).Format("2006-01-02 15:04")
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templates, "templates/*.html")
}

// NewSessionStore 配了 Redis 就把 session 放 Redis，否则用签名 cookie
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisEnabled() && !cfg.Debug {
		rs, err := sessionsRedis.NewStore(10, "tcp", cfg.RedisAddress, cfg.RedisPassword, []byte(cfg.Secret))
		if err != nil {
			return nil, err
		}
		sessionsRedis.SetKeyPrefix(rs, "session:")
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.Secret))
	}
	store.Options(middleware.SessionOptions(false))
	return store, nil
}

func InitRouter(opts Options) (*gin.Engine, error) {
	tmpl, err := LoadTemplates(opts.Locale)
	if err != nil {
		return nil, err
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)
	r.Use(sessions.Sessions("session", opts.Sessions))
	r.Use(middleware.LoadIdentity(opts.Auth))

	auth := handler.NewAuthHandler(opts.Auth, opts.Locale)
	board := handler.NewBoardHandler(opts.Board, opts.Auth, opts.Locale)
	admin := handler.NewAdminHandler(opts.Admin, opts.Locale)
	health := handler.NewHealthHandler(opts.Health)

	r.GET("/health", health.Health)

	// 登录注册
	r.GET("/login", auth.LoginForm)
	r.POST("/login", auth.Login)
	r.GET("/signup", auth.SignupForm)
	r.POST("/signup", auth.Signup)

	// 公开浏览
	r.GET("/", board.Index)
	r.GET("/board", board.Board)
	r.GET("/post/:id", board.View)

	// 登录态接口
	authGroup := r.Group("")
	authGroup.Use(middleware.RequireLogin(opts.Locale))
	{
		authGroup.GET("/logout", auth.Logout)
		authGroup.GET("/admin", admin.Dashboard)
		authGroup.GET("/post/new", board.NewForm)
		authGroup.POST("/post/new", board.Create)
		authGroup.GET("/post/:id/update", board.EditForm)
		authGroup.POST("/post/:id/update", board.Update)
		authGroup.POST("/post/:id/delete", board.Delete)
	}

	return r, nil
}
