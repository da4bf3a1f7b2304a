package service

import (
	"context"

	"Hyeyum_Board/internal/model"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	ListByCreatedDesc(ctx context.Context) ([]model.User, error)
	ListUnordered(ctx context.Context) ([]model.User, error)
}

type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint64) (*model.Post, error)
	ListByDateDesc(ctx context.Context) ([]model.Post, error)
	ListUnordered(ctx context.Context) ([]model.Post, error)
	UpdateContent(ctx context.Context, id uint64, title, content string) error
	Delete(ctx context.Context, id uint64) error
}

type LogStore interface {
	Append(ctx context.Context, entry *model.LogEntry) error
	Recent(ctx context.Context, limit int) ([]model.LogEntry, error)
	RecentUnordered(ctx context.Context, limit int) ([]model.LogEntry, error)
}

// Locker is a cross-process mutual exclusion scope, e.g. a redis lock.
type Locker interface {
	Acquire(ctx context.Context, name, token string) (bool, error)
	Release(ctx context.Context, name, token string) error
}

type PostCache interface {
	Posts(ctx context.Context) ([]model.Post, bool, error)
	SetPosts(ctx context.Context, posts []model.Post) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type Mailer interface {
	Send(to, subject, htmlBody string) error
}
