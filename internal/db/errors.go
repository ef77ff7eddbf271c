package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsUniqueViolation 判断写入是否撞上唯一索引。开启 TranslateError 的连接池返回
// gorm.ErrDuplicatedKey；未开启时按 sqlite 与 postgres 的原始报错识别。
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
