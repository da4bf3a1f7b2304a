package handler

import (
	"errors"
	"fmt"
	"net/http"

	"Hyeyum_Board/internal/middleware"
	"Hyeyum_Board/internal/pkg"
	"Hyeyum_Board/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type BoardHandler struct {
	view
	svc  *service.BoardService
	auth *service.AuthService
}

func NewBoardHandler(svc *service.BoardService, auth *service.AuthService, locale string) *BoardHandler {
	return &BoardHandler{view: view{locale: locale}, svc: svc, auth: auth}
}

// Index 首页帖子列表，顺带确保默认管理员存在
func (h *BoardHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.auth.EnsureAdmin(ctx); err != nil {
		log.WithError(err).Warn("Admin bootstrap failed")
	}

	posts, err := h.svc.List(ctx)
	storeDown := false
	if err != nil {
		log.WithError(err).Warn("Failed to list posts")
		storeDown = true
	}
	data := gin.H{"Posts": posts}
	if storeDown {
		data["Banner"] = pkg.L(h.locale, pkg.MsgStoreUnavailable)
	}
	h.render(c, http.StatusOK, "index.html", data)
}

func (h *BoardHandler) Board(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}

func (h *BoardHandler) View(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	post, err := h.svc.View(c.Request.Context(), id)
	if errors.Is(err, service.ErrStoreUnavailable) {
		log.WithError(err).Warn("Failed to load post")
		err = service.ErrNotFound
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "post_detail.html", gin.H{
		"Post":      post,
		"CanModify": service.CanModify(middleware.CurrentUser(c), post),
	})
}

func (h *BoardHandler) NewForm(c *gin.Context) {
	h.renderForm(c, pkg.MsgPageNewPost, "/post/new", "", "", "")
}

func (h *BoardHandler) Create(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")

	_, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), title, content)
	switch {
	case errors.Is(err, service.ErrValidation):
		h.renderForm(c, pkg.MsgPageNewPost, "/post/new", title, content, pkg.L(h.locale, formErrorID(err)))
		return
	case errors.Is(err, service.ErrStoreUnavailable):
		log.WithError(err).Warn("Failed to create post")
		h.redirect(c, pkg.MsgStoreUnavailable, "/")
		return
	case err != nil:
		h.fail(c, err)
		return
	}
	h.redirect(c, pkg.MsgPostCreated, "/")
}

func (h *BoardHandler) EditForm(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	post, err := h.svc.Editable(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.failWrite(c, err)
		return
	}
	h.renderForm(c, pkg.MsgPageEditPost, updatePath(id), post.Title, post.Content, "")
}

// Update 表单里多余的字段（作者、时间等）一律忽略
func (h *BoardHandler) Update(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	title := c.PostForm("title")
	content := c.PostForm("content")

	_, err = h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), id, title, content)
	if errors.Is(err, service.ErrValidation) {
		h.renderForm(c, pkg.MsgPageEditPost, updatePath(id), title, content, pkg.L(h.locale, formErrorID(err)))
		return
	}
	if err != nil {
		h.failWrite(c, err)
		return
	}
	h.redirect(c, pkg.MsgPostUpdated, fmt.Sprintf("/post/%d", id))
}

func (h *BoardHandler) Delete(c *gin.Context) {
	id, err := postID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		h.failWrite(c, err)
		return
	}
	h.redirect(c, pkg.MsgPostDeleted, "/")
}

func (h *BoardHandler) failWrite(c *gin.Context, err error) {
	if errors.Is(err, service.ErrStoreUnavailable) {
		log.WithError(err).Warn("Post write while store is unavailable")
		h.redirect(c, pkg.MsgStoreUnavailable, "/")
		return
	}
	h.fail(c, err)
}

func (h *BoardHandler) renderForm(c *gin.Context, legendID, action, title, content, formErr string) {
	data := gin.H{
		"Legend":  pkg.L(h.locale, legendID),
		"Action":  action,
		"Title":   title,
		"Content": content,
	}
	if formErr != "" {
		data["Error"] = formErr
	}
	h.render(c, http.StatusOK, "post_form.html", data)
}

func updatePath(id uint64) string {
	return fmt.Sprintf("/post/%d/update", id)
}

func formErrorID(err error) string {
	if errors.Is(err, service.ErrTooLong) {
		return pkg.MsgPostTooLong
	}
	return pkg.MsgPostBlank
}
