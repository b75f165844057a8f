package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookapp/internal/domain/cart"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

const (
	defaultCartTTL = 15 * time.Minute
	// versionTTL 版本号Key的存活时间,远大于缓存TTL
	versionTTL = 24 * time.Hour
)

// setIfVersionScript 版本号未变化时才写入缓存
// KEYS[1]=cart:{user_id} KEYS[2]=cart:{user_id}:ver
// ARGV[1]=读库前的版本号 ARGV[2]=JSON ARGV[3]=TTL(毫秒)
var setIfVersionScript = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if (current or '0') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// CartCache 购物车读缓存
// Key: cart:{user_id}，Value: 按BookID升序的行列表(JSON)
// Key: cart:{user_id}:ver，每次Invalidate递增，回填时比较
// TTL = baseTTL + 0~4分钟随机抖动，避免大量Key同时过期
type CartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// NewCartCache 创建购物车缓存，ttl<=0时使用默认15分钟
func NewCartCache(client *redis.Client, ttl time.Duration) *CartCache {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &CartCache{client: client, baseTTL: ttl}
}

var _ cart.Cache = (*CartCache)(nil)

// Get 未命中返回cart.ErrCacheMiss
func (c *CartCache) Get(ctx context.Context, userID uint) ([]cart.Line, error) {
	data, err := c.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrCacheMiss
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "读取购物车缓存失败")
	}

	var lines []cart.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, apperrors.Wrap(err, "解析购物车缓存失败")
	}
	return lines, nil
}

// Version 当前版本号，从未变更过为0
func (c *CartCache) Version(ctx context.Context, userID uint) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.Wrap(err, "读取购物车版本失败")
	}
	return v, nil
}

// SetIfVersion 版本号仍为version时写入缓存，返回是否写入
func (c *CartCache) SetIfVersion(ctx context.Context, userID uint, version int64, lines []cart.Line) (bool, error) {
	if lines == nil {
		lines = []cart.Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return false, apperrors.Wrap(err, "序列化购物车失败")
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := c.baseTTL + jitter
	written, err := setIfVersionScript.Run(ctx, c.client,
		[]string{cartKey(userID), versionKey(userID)},
		strconv.FormatInt(version, 10), data, ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, apperrors.Wrap(err, "写入购物车缓存失败")
	}
	return written == 1, nil
}

// Invalidate 递增版本号并删除缓存(MULTI/EXEC)
// 此后任何在递增前读库的回填都会被SetIfVersion拒绝
func (c *CartCache) Invalidate(ctx context.Context, userID uint) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(userID))
		pipe.Expire(ctx, versionKey(userID), versionTTL)
		pipe.Del(ctx, cartKey(userID))
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "删除购物车缓存失败")
	}
	return nil
}

func cartKey(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

func versionKey(userID uint) string {
	return fmt.Sprintf("cart:%d:ver", userID)
}
