package service

import (
	"context"
	"errors"

	"Hyeyum_Board/internal/model"
	"Hyeyum_Board/internal/repository/mysql"

	log "github.com/sirupsen/logrus"
)

const RecentLogLimit = 10

type Dashboard struct {
	Users []model.User
	Logs  []model.LogEntry
}

type AdminService struct {
	users UserStore
	logs  LogStore
}

func NewAdminService(users UserStore, logs LogStore) *AdminService {
	return &AdminService{users: users, logs: logs}
}

// Dashboard 仅管理员可见：全部用户（注册时间倒序）+ 最近 10 条日志
func (s *AdminService) Dashboard(ctx context.Context, actor *model.User) (*Dashboard, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, ErrForbidden
	}

	users, err := s.users.ListByCreatedDesc(ctx)
	if err != nil {
		if errors.Is(err, mysql.ErrUnavailable) {
			return nil, storeError(err)
		}
		log.WithError(err).Warn("Ordered user query failed, falling back to unordered")
		if users, err = s.users.ListUnordered(ctx); err != nil {
			return nil, storeError(err)
		}
	}

	logs, err := s.logs.Recent(ctx, RecentLogLimit)
	if err != nil {
		log.WithError(err).Warn("Ordered log query failed, falling back to unordered")
		if logs, err = s.logs.RecentUnordered(ctx, RecentLogLimit); err != nil {
			return nil, storeError(err)
		}
	}

	return &Dashboard{Users: users, Logs: logs}, nil
}
