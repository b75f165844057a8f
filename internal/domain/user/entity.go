package user

import (
	"time"
)

// User 用户实体（聚合根）
// 1. 密码以bcrypt哈希存储
// 2. IsAdmin区分顾客与管理员，管理员可维护目录与订单状态
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Name      string
	Photo     string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, name, photo string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		Photo:     photo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateProfile 更新资料（领域行为），空值表示不修改
func (u *User) UpdateProfile(name, photo string) {
	if name != "" {
		u.Name = name
	}
	if photo != "" {
		u.Photo = photo
	}
	u.UpdatedAt = time.Now()
}

// PromoteToAdmin 授予管理员角色
func (u *User) PromoteToAdmin() {
	u.IsAdmin = true
	u.UpdatedAt = time.Now()
}
