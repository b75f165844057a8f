package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/bookapp/internal/domain/user"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
	"github.com/xiebiao/bookapp/pkg/jwt"
	"github.com/xiebiao/bookapp/pkg/logger"
)

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对（claims带is_admin和会话ID）
// 3. 保存会话到Redis，有效期与Refresh Token一致，会话不存在时Token不可用
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResult 登录结果
type LoginResult struct {
	User   *user.User
	Tokens *jwt.TokenPair
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	tokens, err := uc.jwtManager.GenerateToken(jwt.Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsAdmin:   u.IsAdmin,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}

	sessionData := map[string]interface{}{
		"user_id":  u.ID,
		"email":    u.Email,
		"is_admin": u.IsAdmin,
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionID, sessionData, uc.jwtManager.RefreshTokenTTL()); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().Uint("user_id", u.ID).Bool("is_admin", u.IsAdmin).Msg("登录成功")
	return &LoginResult{User: u, Tokens: tokens}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// Execute 执行登出
// 1. 删除会话，该会话的Refresh Token和刷新得到的Access Token随之失效
// 2. 当前Access Token加入黑名单，黑名单过期时间取Token剩余有效期
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string) error {
	claims, err := uc.jwtManager.ParseAccessToken(accessToken)
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return apperrors.ErrForbidden
	}

	if err := uc.sessionStore.DeleteSession(ctx, userID, claims.SessionID); err != nil {
		return err
	}

	ttl := uc.jwtManager.AccessTokenTTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, ttl)
}

// RefreshTokenUseCase 用Refresh Token换取新的Access Token
// 登出后会话被删除，旧的Refresh Token不能再使用
type RefreshTokenUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

func NewRefreshTokenUseCase(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// Execute 返回新的Access Token
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	live, err := uc.sessionStore.HasSession(ctx, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, apperrors.ErrTokenExpired.WithMessagef("会话已失效，请重新登录")
	}

	accessToken, err := uc.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, err
	}
	return &jwt.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(uc.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}
