package user

import (
	"context"

	"github.com/xiebiao/bookapp/internal/domain/user"
	"github.com/xiebiao/bookapp/pkg/logger"
)

// RegisterUseCase 用户注册用例
// 1. Application层负责用例编排，校验与加密由领域服务完成
// 2. 注册不自动登录，客户端随后调用登录接口获取Token
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
	Photo    string // 可选
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*user.User, error) {
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Name, req.Photo)
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().Uint("user_id", u.ID).Str("email", u.Email).Msg("用户注册成功")
	return u, nil
}
