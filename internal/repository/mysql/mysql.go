package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"Hyeyum_Board/internal/model"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrUnavailable   = errors.New("store unavailable")
	ErrNotConfigured = errors.New("store not configured")
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
)

// Handle 进程级别的数据库句柄：第一次使用时才连接，之后复用
type Handle struct {
	once sync.Once
	open func() (*gorm.DB, error)
	db   *gorm.DB
	err  error
}

// NewHandle defers open until the first call to DB. A failed open is not retried.
func NewHandle(open func() (*gorm.DB, error)) *Handle {
	return &Handle{open: open}
}

// FromDB wraps an already opened connection.
func FromDB(db *gorm.DB) *Handle {
	h := &Handle{db: db}
	h.once.Do(func() {})
	return h
}

// Unconfigured returns a handle whose every use reports ErrUnavailable.
func Unconfigured() *Handle {
	return NewHandle(func() (*gorm.DB, error) {
		return nil, ErrNotConfigured
	})
}

func (h *Handle) DB(ctx context.Context) (*gorm.DB, error) {
	h.once.Do(func() {
		h.db, h.err = h.open()
	})
	if h.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, h.err)
	}
	return h.db.WithContext(ctx), nil
}

func (h *Handle) Ping(ctx context.Context) error {
	db, err := h.DB(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (h *Handle) Close() error {
	if h.db == nil {
		return nil
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc:        model.Now,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// Open 连接 MySQL 并自动建表
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), GormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.LogEntry{},
	)
}

// translate 只有连接类错误才算 ErrUnavailable；数据本身被拒绝（超长等）原样返回
func translate(err error) error {
	var netErr net.Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysqldrv.ErrInvalidConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}
