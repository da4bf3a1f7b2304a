package middleware

import (
	"errors"
	"net/http"

	"Hyeyum_Board/internal/model"
	"Hyeyum_Board/internal/pkg"
	"Hyeyum_Board/internal/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	SessionUserIDKey   = "user_id"
	SessionRememberKey = "remember"
	ContextUserKey     = "current_user"

	// ContextStoreDownKey 标记本次请求因存储不可用而无法确认身份
	ContextStoreDownKey = "store_down"

	// RememberMaxAge 勾选“记住我”时 session 的有效期
	RememberMaxAge = 30 * 24 * 60 * 60
)

// SessionOptions MaxAge 为 0 时是浏览器会话 cookie
func SessionOptions(remember bool) sessions.Options {
	maxAge := 0
	if remember {
		maxAge = RememberMaxAge
	}
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// LoadIdentity 从 session 取出 user_id 并把当前用户注入上下文；取不到就是匿名
func LoadIdentity(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(SessionUserIDKey).(uint64)
		if !ok {
			c.Next()
			return
		}
		// 之后任何一次保存都沿用登录时选择的有效期
		if remember, _ := session.Get(SessionRememberKey).(bool); remember {
			session.Options(SessionOptions(true))
		}

		user, err := auth.CurrentUser(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(ContextUserKey, user)
		case errors.Is(err, service.ErrNotFound):
			// 账号已不存在，丢掉失效的 session
			session.Delete(SessionUserIDKey)
			if err := session.Save(); err != nil {
				log.WithError(err).Warn("Failed to save session")
			}
		case errors.Is(err, service.ErrStoreUnavailable):
			log.WithError(err).Warn("Store unavailable while loading session user")
			c.Set(ContextStoreDownKey, true)
		default:
			log.WithError(err).Warn("Failed to load session user")
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// RequireLogin 未登录时带提示跳转到登录页。
// 存储不可用时用户其实已登录，只提示存储故障并回到首页。
func RequireLogin(locale string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		msgID, target := pkg.MsgLoginRequired, "/login"
		if c.GetBool(ContextStoreDownKey) {
			msgID, target = pkg.MsgStoreUnavailable, "/"
		}
		session := sessions.Default(c)
		session.AddFlash(pkg.L(locale, msgID))
		if err := session.Save(); err != nil {
			log.WithError(err).Warn("Failed to save session")
		}
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}
