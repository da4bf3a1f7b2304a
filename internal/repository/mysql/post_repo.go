package mysql

import (
	"context"

	"Hyeyum_Board/internal/model"
)

type PostRepository struct {
	h *Handle
}

func NewPostRepository(h *Handle) *PostRepository {
	return &PostRepository{h: h}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	db, err := r.h.DB(ctx)
	if err != nil {
		return err
	}
	return translate(db.Create(post).Error)
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	db, err := r.h.DB(ctx)
	if err != nil {
		return nil, err
	}
	var post model.Post
	if err := db.First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// ListByDateDesc 走 idx_posts_date_posted 索引
func (r *PostRepository) ListByDateDesc(ctx context.Context) ([]model.Post, error) {
	db, err := r.h.DB(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Post
	err = db.Order("date_posted DESC").Order("id DESC").Find(&list).Error
	return list, translate(err)
}

func (r *PostRepository) ListUnordered(ctx context.Context) ([]model.Post, error) {
	db, err := r.h.DB(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Post
	err = db.Find(&list).Error
	return list, translate(err)
}

// UpdateContent only ever writes title and content.
func (r *PostRepository) UpdateContent(ctx context.Context, id uint64, title, content string) error {
	db, err := r.h.DB(ctx)
	if err != nil {
		return err
	}
	res := db.Model(&model.Post{}).
		Where("id = ?", id).
		Select("title", "content").
		Updates(map[string]any{"title": title, "content": content})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL 值没变化时也报 0 行，再确认帖子是否还在
		var n int64
		if err := db.Model(&model.Post{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return translate(err)
		}
		if n == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// Delete 硬删除；不存在时返回 ErrNotFound
func (r *PostRepository) Delete(ctx context.Context, id uint64) error {
	db, err := r.h.DB(ctx)
	if err != nil {
		return err
	}
	res := db.Delete(&model.Post{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
