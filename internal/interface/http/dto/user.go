package dto

import (
	"github.com/xiebiao/bookapp/internal/domain/user"
	"github.com/xiebiao/bookapp/pkg/jwt"
)

// RegisterRequest HTTP层注册请求
// 格式校验在这里完成，密码强度等业务规则由领域服务校验
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"secret123"`
	Name     string `json:"name" binding:"required,min=2,max=50" example:"Alice"`
	Photo    string `json:"photo" binding:"max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest 空字段表示不修改
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2,max=50" example:"Alice"`
	Photo string `json:"photo" binding:"max=500"`
}

// UserResponse 用户响应（不包含密码）
type UserResponse struct {
	ID        uint   `json:"id" example:"1"`
	Email     string `json:"email" example:"alice@example.com"`
	Name      string `json:"name" example:"Alice"`
	Photo     string `json:"photo,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Photo:     u.Photo,
		IsAdmin:   u.IsAdmin,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func NewUserList(users []*user.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = NewUserResponse(u)
	}
	return out
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"` // Access Token过期时间（秒）
	IsAdmin      bool         `json:"is_admin"`
}

func NewLoginResponse(u *user.User, tokens *jwt.TokenPair) LoginResponse {
	return LoginResponse{
		User:         NewUserResponse(u),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		IsAdmin:      u.IsAdmin,
	}
}
