package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookapp/internal/domain/user"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
	"github.com/xiebiao/bookapp/pkg/jwt"
)

type fixture struct {
	mr       *miniredis.Miniredis
	sessions *redis.SessionStore
	jwt      *jwt.Manager

	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	refresh  *RefreshTokenUseCase
	profile  *ProfileUseCase
	list     *ListUsersUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		},
	}
	db, err := gormdb.NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := user.NewService(gormdb.NewUserRepository(db))
	f := &fixture{
		mr:       mr,
		sessions: redis.NewSessionStore(client),
		jwt:      jwt.NewManager("test-secret", 15*time.Minute, 24*time.Hour),
	}
	f.register = NewRegisterUseCase(svc)
	f.login = NewLoginUseCase(svc, f.jwt, f.sessions)
	f.logout = NewLogoutUseCase(f.jwt, f.sessions)
	f.refresh = NewRefreshTokenUseCase(f.jwt, f.sessions)
	f.profile = NewProfileUseCase(svc)
	f.list = NewListUsersUseCase(svc)
	return f
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.register.Execute(ctx, RegisterRequest{
		Email:    "alice@example.com",
		Password: "secret123",
		Name:     "Alice",
		Photo:    "https://example.com/a.png",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	result, err := f.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "secret123", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, result.User.ID)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.Equal(t, int64(900), result.Tokens.ExpiresIn)

	claims, err := f.jwt.ParseAccessToken(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)
	require.NotEmpty(t, claims.SessionID)

	session, err := f.sessions.GetSession(ctx, u.ID, claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", session["ip"])
	assert.Equal(t, 24*time.Hour, f.mr.TTL(fmt.Sprintf("session:%d:%s", u.ID, claims.SessionID)))

	_, err = f.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestLogoutRevokesTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.register.Execute(ctx, RegisterRequest{Email: "bob@example.com", Password: "secret123", Name: "Bob"})
	require.NoError(t, err)
	result, err := f.login.Execute(ctx, LoginRequest{Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	// 另一端登录的会话不受本次登出影响
	other, err := f.login.Execute(ctx, LoginRequest{Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	pair, err := f.refresh.Execute(ctx, result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	// Access Token不能当作Refresh Token使用
	_, err = f.refresh.Execute(ctx, result.Tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	require.NoError(t, f.logout.Execute(ctx, result.User.ID, result.Tokens.AccessToken))

	revoked, err := f.sessions.IsInBlacklist(ctx, result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := f.mr.TTL("blacklist:" + result.Tokens.AccessToken)
	assert.True(t, ttl > 0 && ttl <= 15*time.Minute, "blacklist TTL should follow token expiry, got %s", ttl)

	// 会话已删除,Refresh Token不能再使用
	_, err = f.refresh.Execute(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	_, err = f.refresh.Execute(ctx, other.Tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_InvalidToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.refresh.Execute(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.register.Execute(ctx, RegisterRequest{Email: "carol@example.com", Password: "secret123", Name: "Carol"})
	require.NoError(t, err)

	got, err := f.profile.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.Name)

	updated, err := f.profile.Update(ctx, u.ID, "Caroline", "")
	require.NoError(t, err)
	assert.Equal(t, "Caroline", updated.Name)

	users, err := f.list.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Caroline", users[0].Name)
}
