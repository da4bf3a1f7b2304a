package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	MaxTitleLen = 200

	// MaxContentBytes is the capacity of a MySQL TEXT column.
	MaxContentBytes = 65535
)

type Post struct {
	ID         uint64    `gorm:"primaryKey"`
	Title      string    `gorm:"size:200;not null"`
	Content    string    `gorm:"type:text;not null"`
	AuthorID   uint64    `gorm:"not null;index"`
	AuthorName string    `gorm:"size:64;not null"` // 发帖时的快照，不随作者改名更新
	DatePosted time.Time `gorm:"not null;index:idx_posts_date_posted,sort:desc"`
	IsPinned   bool      `gorm:"not null"`
}

func (p *Post) AfterFind(tx *gorm.DB) error {
	p.DatePosted = p.DatePosted.In(KST)
	return nil
}

func PostFromMap(id uint64, m map[string]any) (*Post, error) {
	p := &Post{ID: id}
	var err error
	if p.Title, err = stringField(m, "title"); err != nil {
		return nil, err
	}
	if p.Content, err = stringField(m, "content"); err != nil {
		return nil, err
	}
	if p.AuthorID, err = uintField(m, "author_id"); err != nil {
		return nil, err
	}
	if p.AuthorName, err = stringField(m, "author_name"); err != nil {
		return nil, err
	}
	if p.DatePosted, err = timeField(m, "date_posted"); err != nil {
		return nil, err
	}
	if p.IsPinned, err = boolField(m, "is_pinned"); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Post) ToMap() map[string]any {
	return map[string]any{
		"title":       p.Title,
		"content":     p.Content,
		"author_id":   p.AuthorID,
		"author_name": p.AuthorName,
		"date_posted": p.DatePosted.In(KST),
		"is_pinned":   p.IsPinned,
	}
}
