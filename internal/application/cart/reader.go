package cart

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/xiebiao/bookapp/internal/domain/cart"
	"github.com/xiebiao/bookapp/pkg/logger"
	"github.com/xiebiao/bookapp/pkg/metrics"
)

// TxManager 事务管理器(由gormdb.TxManager实现)
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Reader 购物车读取(Cache-Aside)
// 1. 先读Redis缓存
// 2. 未命中时先取版本号再读数据库,按版本号条件回填;
//    同一用户同一版本的并发未命中合并为一次查询
// 3. 缓存故障只降级为读数据库,不影响请求
type Reader struct {
	repo  cart.Repository
	cache cart.Cache
	group singleflight.Group
}

// NewReader 创建购物车读取器
func NewReader(repo cart.Repository, cache cart.Cache) *Reader {
	metrics.InitMetrics()
	return &Reader{repo: repo, cache: cache}
}

// Lines 用户购物车的所有行(按BookID升序)
func (r *Reader) Lines(ctx context.Context, userID uint) ([]cart.Line, error) {
	lines, err := r.cache.Get(ctx, userID)
	switch {
	case err == nil:
		metrics.IncCounterVec(metrics.CartCacheRequests, map[string]string{"result": "hit"})
		return lines, nil
	case errors.Is(err, cart.ErrCacheMiss):
		metrics.IncCounterVec(metrics.CartCacheRequests, map[string]string{"result": "miss"})
	default:
		metrics.IncCounterVec(metrics.CartCacheRequests, map[string]string{"result": "error"})
		logger.Ctx(ctx).Warn().Err(err).Uint("user_id", userID).Msg("读取购物车缓存失败,回源数据库")
	}

	// 版本号必须在读库之前获取
	version, verErr := r.cache.Version(ctx, userID)
	if verErr != nil {
		logger.Ctx(ctx).Warn().Err(verErr).Uint("user_id", userID).Msg("读取购物车版本失败,跳过回填")
		version = -1
	}

	key := fmt.Sprintf("%d:%d", userID, version)
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		lines, err := r.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if verErr != nil {
			return lines, nil
		}
		written, err := r.cache.SetIfVersion(ctx, userID, version, lines)
		switch {
		case err != nil:
			logger.Ctx(ctx).Warn().Err(err).Uint("user_id", userID).Msg("回填购物车缓存失败")
		case !written:
			logger.Ctx(ctx).Debug().Uint("user_id", userID).Int64("version", version).Msg("购物车已变更,放弃回填")
		}
		return lines, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]cart.Line), nil
}

// Invalidate 删除缓存,每次变更提交后调用
// 失败只记录日志:缓存最终会按TTL过期
func (r *Reader) Invalidate(ctx context.Context, userID uint) {
	if err := r.cache.Invalidate(ctx, userID); err != nil {
		logger.Ctx(ctx).Error().Err(err).Uint("user_id", userID).Msg("删除购物车缓存失败")
	}
}
