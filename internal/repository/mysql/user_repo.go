package mysql

import (
	"context"

	"Hyeyum_Board/internal/model"

	"gorm.io/gorm/clause"
)

type UserRepository struct {
	h *Handle
}

func NewUserRepository(h *Handle) *UserRepository {
	return &UserRepository{h: h}
}

// Create 用户名唯一索引冲突时返回 ErrDuplicate
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	db, err := r.h.DB(ctx)
	if err != nil {
		return err
	}
	return translate(db.Create(user).Error)
}

// CreateIfAbsent inserts the user unless the username is already taken. Safe to race.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	db, err := r.h.DB(ctx)
	if err != nil {
		return false, err
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(user)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// FindByUsername 大小写敏感的精确匹配
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	db, err := r.h.DB(ctx)
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := db.Where("username = ?", username).Limit(1).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	for i := range users {
		// MySQL 默认排序规则不区分大小写，这里再精确比较一次
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	db, err := r.h.DB(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) ListByCreatedDesc(ctx context.Context) ([]model.User, error) {
	db, err := r.h.DB(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.User
	err = db.Order("created_at DESC").Order("id DESC").Find(&list).Error
	return list, translate(err)
}

func (r *UserRepository) ListUnordered(ctx context.Context) ([]model.User, error) {
	db, err := r.h.DB(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.User
	err = db.Find(&list).Error
	return list, translate(err)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, username, digest string) error {
	db, err := r.h.DB(ctx)
	if err != nil {
		return err
	}
	res := db.Model(&model.User{}).Where("username = ?", username).Update("password", digest)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
