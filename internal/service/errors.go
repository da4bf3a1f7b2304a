package service

import (
	"errors"
	"fmt"

	"Hyeyum_Board/internal/repository/mysql"
)

var (
	ErrValidation         = errors.New("required field is blank")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrStoreUnavailable   = errors.New("store unavailable")

	// ErrTooLong also matches ErrValidation.
	ErrTooLong = fmt.Errorf("%w: value too long", ErrValidation)
)

// storeError 把仓储层错误归类成服务层错误。
// 只有连接不上才算 ErrStoreUnavailable，其余错误原样返回，由上层按内部错误处理。
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mysql.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, mysql.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return err
	}
}
