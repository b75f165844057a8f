package user

import (
	"context"

	"github.com/xiebiao/bookapp/internal/domain/user"
)

// ProfileUseCase 个人资料查询与修改
type ProfileUseCase struct {
	userService user.Service
}

func NewProfileUseCase(userService user.Service) *ProfileUseCase {
	return &ProfileUseCase{userService: userService}
}

func (uc *ProfileUseCase) Get(ctx context.Context, userID uint) (*user.User, error) {
	return uc.userService.GetProfile(ctx, userID)
}

// Update 空字段表示不修改
func (uc *ProfileUseCase) Update(ctx context.Context, userID uint, name, photo string) (*user.User, error) {
	return uc.userService.UpdateProfile(ctx, userID, name, photo)
}

// ListUsersUseCase 用户列表(管理员)
type ListUsersUseCase struct {
	userService user.Service
}

func NewListUsersUseCase(userService user.Service) *ListUsersUseCase {
	return &ListUsersUseCase{userService: userService}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context) ([]*user.User, error) {
	return uc.userService.ListUsers(ctx)
}
