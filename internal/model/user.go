package model

import (
	"time"

	"gorm.io/gorm"
)

// 列宽上限，按字符数计
const (
	MaxUsernameLen = 64
	MaxNameLen     = 64
)

type User struct {
	ID        uint64    `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex;size:64;not null"`
	Name      string    `gorm:"size:64;not null"`
	Password  string    `gorm:"size:255;not null"`
	IsAdmin   bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (u *User) AfterFind(tx *gorm.DB) error {
	u.CreatedAt = u.CreatedAt.In(KST)
	return nil
}

// UserFromMap builds a User from a flat document. The password digest is carried under "password".
func UserFromMap(id uint64, m map[string]any) (*User, error) {
	u := &User{ID: id}
	var err error
	if u.Username, err = stringField(m, "username"); err != nil {
		return nil, err
	}
	if u.Name, err = stringField(m, "name"); err != nil {
		return nil, err
	}
	if u.Password, err = stringField(m, "password"); err != nil {
		return nil, err
	}
	if u.IsAdmin, err = boolField(m, "is_admin"); err != nil {
		return nil, err
	}
	if u.CreatedAt, err = timeField(m, "created_at"); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) ToMap() map[string]any {
	return map[string]any{
		"username":   u.Username,
		"name":       u.Name,
		"password":   u.Password,
		"is_admin":   u.IsAdmin,
		"created_at": u.CreatedAt.In(KST),
	}
}
