package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"Hyeyum_Board/internal/model"
	"Hyeyum_Board/internal/pkg"
	"Hyeyum_Board/internal/repository/mysql"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminName     = "Administrator"
	DefaultAdminPassword = "admin123"

	bootstrapLock = "admin_bootstrap"
)

// 用户不存在时也跑一次 bcrypt，避免通过响应时间枚举用户名
var dummyDigest, _ = pkg.HashPassword("dummy-password")

type AuthService struct {
	users         UserStore
	audit         *AuditService
	locker        Locker
	mailer        Mailer
	notifyTo      string
	adminPassword string

	bootstrapped atomic.Bool
	bootstrapMu  sync.Mutex
	pending      sync.WaitGroup
}

type AuthOption func(*AuthService)

func WithLocker(l Locker) AuthOption {
	return func(s *AuthService) { s.locker = l }
}

// WithSignupNotice mails to whenever a new account is created.
func WithSignupNotice(m Mailer, to string) AuthOption {
	return func(s *AuthService) {
		s.mailer = m
		s.notifyTo = to
	}
}

func WithAdminPassword(password string) AuthOption {
	return func(s *AuthService) {
		if password != "" {
			s.adminPassword = password
		}
	}
}

func NewAuthService(users UserStore, audit *AuditService, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:         users,
		audit:         audit,
		adminPassword: DefaultAdminPassword,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login 用户不存在和密码错误返回同一个错误
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, mysql.ErrNotFound) {
		pkg.CheckPassword(dummyDigest, password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeError(err)
	}
	if !pkg.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	s.audit.Record(ctx, model.ActionLogin, user, fmt.Sprintf("User %s logged in", user.Username))
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, user *model.User) {
	if user == nil {
		return
	}
	s.audit.Record(ctx, model.ActionLogout, user, fmt.Sprintf("User %s logged out", user.Username))
}

// Signup 注册普通用户，不会自动登录
func (s *AuthService) Signup(ctx context.Context, username, name, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	if username == "" || name == "" || password == "" {
		return nil, ErrValidation
	}
	if utf8.RuneCountInString(username) > model.MaxUsernameLen ||
		utf8.RuneCountInString(name) > model.MaxNameLen ||
		len(password) > pkg.MaxPasswordBytes {
		return nil, ErrTooLong
	}

	// 预检查只是为了给出友好提示，真正的唯一性由唯一索引保证
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, mysql.ErrNotFound) {
		return nil, storeError(err)
	}

	digest, err := pkg.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:  username,
		Name:      name,
		Password:  digest,
		IsAdmin:   false,
		CreatedAt: model.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, mysql.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, storeError(err)
	}

	s.audit.Record(ctx, model.ActionSignup, user, fmt.Sprintf("New user %s registered", user.Username))
	s.notifySignup(user)
	return user, nil
}

func (s *AuthService) notifySignup(user *model.User) {
	if s.mailer == nil || s.notifyTo == "" {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		body := pkg.SignupNoticeHTML(user.Username, user.Name, user.CreatedAt)
		if err := s.mailer.Send(s.notifyTo, "[Hyeyum Board] 새 회원 가입: "+user.Username, body); err != nil {
			log.WithError(err).WithField("username", user.Username).Warn("Failed to send signup notice")
		}
	}()
}

// EnsureAdmin 确保存在默认管理员账号。可并发调用，成功一次之后直接返回。
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	if s.bootstrapped.Load() {
		return nil
	}
	s.bootstrapMu.Lock()
	defer s.bootstrapMu.Unlock()
	if s.bootstrapped.Load() {
		return nil
	}

	if s.locker != nil {
		token := uuid.NewString()
		ok, err := s.locker.Acquire(ctx, bootstrapLock, token)
		switch {
		case err != nil:
			// 锁服务不可用时继续，插入本身是冲突安全的
			log.WithError(err).Warn("Failed to acquire bootstrap lock")
		case !ok:
			// 别的实例正在创建，下次请求再确认
			return nil
		default:
			defer func() {
				if err := s.locker.Release(context.Background(), bootstrapLock, token); err != nil {
					log.WithError(err).Warn("Failed to release bootstrap lock")
				}
			}()
		}
	}

	_, err := s.users.FindByUsername(ctx, DefaultAdminUsername)
	if err == nil {
		s.bootstrapped.Store(true)
		return nil
	}
	if !errors.Is(err, mysql.ErrNotFound) {
		return storeError(err)
	}

	digest, err := pkg.HashPassword(s.adminPassword)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:  DefaultAdminUsername,
		Name:      DefaultAdminName,
		Password:  digest,
		IsAdmin:   true,
		CreatedAt: model.Now(),
	}
	created, err := s.users.CreateIfAbsent(ctx, admin)
	if err != nil {
		return storeError(err)
	}
	if created {
		log.WithField("username", admin.Username).Info("Created default admin account")
		s.audit.Record(ctx, model.ActionAdminBootstrap, admin, "Default admin account created")
	}
	s.bootstrapped.Store(true)
	return nil
}

// CurrentUser resolves a session's user id. A stale id yields ErrNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

// Wait blocks until queued signup notices are sent.
func (s *AuthService) Wait() {
	s.pending.Wait()
}
