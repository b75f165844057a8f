package cart

import (
	"context"
)

// Repository 购物车仓储接口
// 所有方法都以userID为作用域,事务通过context传递
type Repository interface {
	// AddQuantity 存在则累加,不存在则新建(原子upsert)
	AddQuantity(ctx context.Context, userID, bookID uint, delta int) error

	// FindLine 查找单行,不存在返回ErrLineNotFound
	FindLine(ctx context.Context, userID, bookID uint) (*Line, error)

	// SetQuantity 覆盖数量,不存在返回ErrLineNotFound
	SetQuantity(ctx context.Context, userID, bookID uint, quantity int) error

	// Remove 删除单行(幂等)
	Remove(ctx context.Context, userID, bookID uint) error

	// ListByUser 按BookID升序返回用户的所有行
	ListByUser(ctx context.Context, userID uint) ([]Line, error)

	// ClearByUser 清空用户购物车(幂等)
	ClearByUser(ctx context.Context, userID uint) error
}

// Cache 购物车读缓存(非权威数据源)
// 每次变更提交后必须Invalidate
// 回填使用版本号:读库前取Version,只有版本未变时SetIfVersion才会写入,
// 避免读库之后、回填之前发生的变更被旧快照覆盖
type Cache interface {
	Get(ctx context.Context, userID uint) ([]Line, error) // 未命中返回ErrCacheMiss
	Version(ctx context.Context, userID uint) (int64, error)
	SetIfVersion(ctx context.Context, userID uint, version int64, lines []Line) (bool, error)
	Invalidate(ctx context.Context, userID uint) error // 递增版本并删除缓存
}
