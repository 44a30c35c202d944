package service

import (
	"errors"

	"gorm.io/gorm"
)

// notFoundOr 把 gorm.ErrRecordNotFound 转换为业务错误，其他错误原样返回
func notFoundOr(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
