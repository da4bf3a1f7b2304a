// Package testutil opens throwaway stores for tests.
package testutil

import (
	"regexp"
	"testing"

	"Hyeyum_Board/internal/repository/mysql"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// OpenHandle returns a migrated in-memory database private to the calling test.
func OpenHandle(t testing.TB) *mysql.Handle {
	t.Helper()
	name := unsafeChars.ReplaceAllString(t.Name(), "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), mysql.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 共享缓存模式下多连接会互相锁表
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, mysql.Migrate(db))
	return mysql.FromDB(db)
}

// Stores bundles the repositories over one handle.
type Stores struct {
	Handle *mysql.Handle
	Users  *mysql.UserRepository
	Posts  *mysql.PostRepository
	Logs   *mysql.LogRepository
}

func OpenStores(t testing.TB) *Stores {
	h := OpenHandle(t)
	return &Stores{
		Handle: h,
		Users:  mysql.NewUserRepository(h),
		Posts:  mysql.NewPostRepository(h),
		Logs:   mysql.NewLogRepository(h),
	}
}
