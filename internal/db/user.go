package db

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials 用户不存在与密码错误对外不作区分
var ErrInvalidCredentials = errors.New("invalid admin credentials")

// AdminUser 后台管理员，密码保存 bcrypt 哈希
type AdminUser struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

// adminCredentials 登录与初始化共用同一套规整规则，保证写入与校验一致
type adminCredentials struct {
	username string
	password string
}

func normalizeCredentials(username, password string) adminCredentials {
	return adminCredentials{
		username: strings.TrimSpace(username),
		password: strings.TrimSpace(password),
	}
}

func (c adminCredentials) empty() bool {
	return c.username == "" || c.password == ""
}

// EnsureAdmin 按配置初始化管理员账号。
// 账号已存在时不改动其密码；用户名或密码为空时跳过。
func EnsureAdmin(gdb *gorm.DB, username, password string) error {
	creds := normalizeCredentials(username, password)
	if creds.empty() {
		return nil
	}
	if gdb == nil {
		return errors.New("database not initialized")
	}

	var count int64
	if err := gdb.Model(&AdminUser{}).Where("username = ?", creds.username).Count(&count).Error; err != nil {
		return fmt.Errorf("lookup admin %q: %w", creds.username, err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	err = gdb.Create(&AdminUser{Username: creds.username, Password: string(hashed)}).Error
	// 多个实例同时启动时，另一方先写入也算成功
	if err != nil && !IsUniqueViolation(err) {
		return fmt.Errorf("create admin %q: %w", creds.username, err)
	}
	return nil
}

// VerifyAdmin 校验用户名与密码，成功时返回管理员记录。
func VerifyAdmin(gdb *gorm.DB, username, password string) (*AdminUser, error) {
	creds := normalizeCredentials(username, password)
	if creds.empty() {
		return nil, ErrInvalidCredentials
	}

	var user AdminUser
	if err := gdb.Where("username = ?", creds.username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
