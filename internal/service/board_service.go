package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"Hyeyum_Board/internal/model"
	"Hyeyum_Board/internal/repository/mysql"

	log "github.com/sirupsen/logrus"
)

type BoardService struct {
	posts PostStore
	audit *AuditService
	cache PostCache
}

// NewBoardService accepts a nil cache.
func NewBoardService(posts PostStore, audit *AuditService, cache PostCache) *BoardService {
	return &BoardService{posts: posts, audit: audit, cache: cache}
}

// List 按发帖时间倒序；排序查询失败时退化成无序列表，而不是整页报错
func (s *BoardService) List(ctx context.Context) ([]model.Post, error) {
	if s.cache != nil {
		posts, ok, err := s.cache.Posts(ctx)
		if err != nil {
			log.WithError(err).Warn("Failed to read post list cache")
		} else if ok {
			return posts, nil
		}
	}

	posts, err := s.posts.ListByDateDesc(ctx)
	if err == nil {
		if s.cache != nil {
			if err := s.cache.SetPosts(ctx, posts); err != nil {
				log.WithError(err).Warn("Failed to fill post list cache")
			}
		}
		return posts, nil
	}
	if errors.Is(err, mysql.ErrUnavailable) {
		return nil, storeError(err)
	}

	log.WithError(err).Warn("Ordered post query failed, falling back to unordered")
	posts, err = s.posts.ListUnordered(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return posts, nil
}

func (s *BoardService) View(ctx context.Context, id uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return post, nil
}

// Editable 返回 actor 可以修改的帖子：先判断存在，再判断权限
func (s *BoardService) Editable(ctx context.Context, actor *model.User, id uint64) (*model.Post, error) {
	post, err := s.View(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BoardService) Create(ctx context.Context, actor *model.User, title, content string) (*model.Post, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	title, content, err := cleanPost(title, content)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:      title,
		Content:    content,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		DatePosted: model.Now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeError(err)
	}

	s.invalidate(ctx)
	s.audit.Record(ctx, model.ActionPostCreated, actor, fmt.Sprintf("Post %d created: %s", post.ID, post.Title))
	return post, nil
}

// Update 只覆盖标题和正文
func (s *BoardService) Update(ctx context.Context, actor *model.User, id uint64, title, content string) (*model.Post, error) {
	post, err := s.Editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	title, content, err = cleanPost(title, content)
	if err != nil {
		return nil, err
	}

	if err := s.posts.UpdateContent(ctx, id, title, content); err != nil {
		return nil, storeError(err)
	}
	post.Title = title
	post.Content = content

	s.invalidate(ctx)
	s.audit.Record(ctx, model.ActionPostUpdated, actor, fmt.Sprintf("Post %d updated: %s", post.ID, post.Title))
	return post, nil
}

func (s *BoardService) Delete(ctx context.Context, actor *model.User, id uint64) error {
	post, err := s.Editable(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return storeError(err)
	}

	s.invalidate(ctx)
	s.audit.Record(ctx, model.ActionPostDeleted, actor, fmt.Sprintf("Post %d deleted: %s", post.ID, post.Title))
	return nil
}

func (s *BoardService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate post list cache")
	}
}

func cleanPost(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return "", "", ErrValidation
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLen || len(content) > model.MaxContentBytes {
		return "", "", ErrTooLong
	}
	return title, content, nil
}
