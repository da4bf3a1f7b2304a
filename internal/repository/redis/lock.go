package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LockTTL       = 5 * time.Second
	LockKeyPrefix = "lock:board:"
)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// DistLock 基于 SET NX 的分布式锁，token 用来保证只释放自己持有的锁
type DistLock struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewDistLock(rdb *redis.Client) *DistLock {
	return &DistLock{RDB: rdb, TTL: LockTTL}
}

func (l *DistLock) Acquire(ctx context.Context, name, token string) (bool, error) {
	return l.RDB.SetNX(ctx, LockKeyPrefix+name, token, l.TTL).Result()
}

// Release 用lua保证原子性
func (l *DistLock) Release(ctx context.Context, name, token string) error {
	return releaseScript.Run(ctx, l.RDB, []string{LockKeyPrefix + name}, token).Err()
}
