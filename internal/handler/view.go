package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Hyeyum_Board/internal/middleware"
	"Hyeyum_Board/internal/pkg"
	"Hyeyum_Board/internal/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// view 各个 handler 共用的渲染/提示/报错逻辑
type view struct {
	locale string
}

func (v view) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) > 0 {
		if err := session.Save(); err != nil {
			log.WithError(err).Warn("Failed to save session")
		}
	}
	data["Flashes"] = flashes
	data["CurrentUser"] = middleware.CurrentUser(c)
	c.HTML(status, name, data)
}

func (v view) flash(c *gin.Context, msgID string) {
	session := sessions.Default(c)
	session.AddFlash(pkg.L(v.locale, msgID))
	if err := session.Save(); err != nil {
		log.WithError(err).Warn("Failed to save session")
	}
}

func (v view) redirect(c *gin.Context, msgID, location string) {
	if msgID != "" {
		v.flash(c, msgID)
	}
	c.Redirect(http.StatusFound, location)
}

// fail 终止请求；403/404 不带任何资源细节
func (v view) fail(c *gin.Context, err error) {
	status, msgID := http.StatusInternalServerError, pkg.MsgInternal
	switch {
	case errors.Is(err, service.ErrNotFound):
		status, msgID = http.StatusNotFound, pkg.MsgNotFound
	case errors.Is(err, service.ErrForbidden):
		status, msgID = http.StatusForbidden, pkg.MsgForbidden
	default:
		log.WithError(err).Error("Request failed")
	}
	c.HTML(status, "error.html", gin.H{
		"Status":      status,
		"Message":     pkg.L(v.locale, msgID),
		"CurrentUser": middleware.CurrentUser(c),
	})
	c.Abort()
}

func postID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, service.ErrNotFound
	}
	return id, nil
}
