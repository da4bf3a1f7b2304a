package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Hyeyum_Board/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	PostListTTL = 30 * time.Second
	PostListKey = "board:posts:list"
)

// PostListCache 缓存按发帖时间倒序的帖子列表
type PostListCache struct {
	rdb *redis.Client
	ttl time.Duration
	// 延迟二删，抵消并发回填窗口；0 表示关闭
	secondDelete time.Duration
}

func NewPostListCache(rdb *redis.Client) *PostListCache {
	return &PostListCache{
		rdb:          rdb,
		ttl:          PostListTTL,
		secondDelete: 500 * time.Millisecond,
	}
}

// Posts reports ok=false on a cache miss.
func (c *PostListCache) Posts(ctx context.Context) ([]model.Post, bool, error) {
	data, err := c.rdb.Get(ctx, PostListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var posts []model.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, false, err
	}
	for i := range posts {
		posts[i].DatePosted = posts[i].DatePosted.In(model.KST)
	}
	return posts, true, nil
}

func (c *PostListCache) SetPosts(ctx context.Context, posts []model.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, PostListKey, data, c.ttl).Err()
}

// Invalidate 立刻删除；如果配置了延迟，再在后台删一次
func (c *PostListCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, PostListKey).Err(); err != nil {
		return err
	}
	if c.secondDelete > 0 {
		go func(d time.Duration) {
			t := time.NewTimer(d)
			defer t.Stop()
			<-t.C
			_ = c.rdb.Del(context.Background(), PostListKey).Err()
		}(c.secondDelete)
	}
	return nil
}
