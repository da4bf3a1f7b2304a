package handler

import (
	"errors"
	"net/http"

	"Hyeyum_Board/internal/middleware"
	"Hyeyum_Board/internal/pkg"
	"Hyeyum_Board/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type AdminHandler struct {
	view
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService, locale string) *AdminHandler {
	return &AdminHandler{view: view{locale: locale}, svc: svc}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context(), middleware.CurrentUser(c))
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		log.WithError(err).Warn("Failed to load dashboard")
		h.render(c, http.StatusOK, "admin.html", gin.H{
			"Banner": pkg.L(h.locale, pkg.MsgStoreUnavailable),
		})
		return
	case err != nil:
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin.html", gin.H{
		"Users": d.Users,
		"Logs":  d.Logs,
	})
}
