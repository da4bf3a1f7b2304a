package handler

import (
	"errors"
	"net/http"

	"Hyeyum_Board/internal/middleware"
	"Hyeyum_Board/internal/pkg"
	"Hyeyum_Board/internal/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type AuthHandler struct {
	view
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService, locale string) *AuthHandler {
	return &AuthHandler{view: view{locale: locale}, svc: svc}
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "login.html", nil)
}

// Login 登录失败统一提示，不区分用户名不存在还是密码错误
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	remember := c.PostForm("remember") != ""

	user, err := h.svc.Login(c.Request.Context(), username, password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.redirect(c, pkg.MsgLoginFailed, "/login")
		return
	case errors.Is(err, service.ErrStoreUnavailable):
		log.WithError(err).Warn("Login while store is unavailable")
		h.redirect(c, pkg.MsgStoreUnavailable, "/login")
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserIDKey, user.ID)
	session.Set(middleware.SessionRememberKey, remember)
	session.Options(middleware.SessionOptions(remember))
	if err := session.Save(); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) SignupForm(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "signup.html", nil)
}

// Signup 注册成功后不自动登录，跳转到登录页
func (h *AuthHandler) Signup(c *gin.Context) {
	username := c.PostForm("username")
	name := c.PostForm("name")
	password := c.PostForm("password")

	_, err := h.svc.Signup(c.Request.Context(), username, name, password)
	switch {
	case errors.Is(err, service.ErrValidation):
		msg := pkg.MsgSignupBlank
		if errors.Is(err, service.ErrTooLong) {
			msg = pkg.MsgSignupTooLong
		}
		h.render(c, http.StatusOK, "signup.html", gin.H{
			"Error":    pkg.L(h.locale, msg),
			"Username": username,
			"Name":     name,
		})
		return
	case errors.Is(err, service.ErrUsernameTaken):
		h.redirect(c, pkg.MsgSignupTaken, "/signup")
		return
	case errors.Is(err, service.ErrStoreUnavailable):
		log.WithError(err).Warn("Signup while store is unavailable")
		h.redirect(c, pkg.MsgStoreUnavailable, "/signup")
		return
	case err != nil:
		h.fail(c, err)
		return
	}
	h.redirect(c, pkg.MsgSignupDone, "/login")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context(), middleware.CurrentUser(c))

	session := sessions.Default(c)
	session.Clear()
	session.Options(middleware.SessionOptions(false))
	h.redirect(c, pkg.MsgLoggedOut, "/")
}
