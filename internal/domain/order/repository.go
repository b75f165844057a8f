package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. Order与OrderItem是聚合,必须一起保存
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建订单(包含订单明细)
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id string) (*Order, error)

	// LockByID 悲观锁查询订单(状态流转时使用)
	LockByID(ctx context.Context, id string) (*Order, error)

	// Update 更新订单状态
	Update(ctx context.Context, order *Order) error

	// ListByUserID 用户的订单,按下单时间倒序
	ListByUserID(ctx context.Context, userID uint) ([]*Order, error)

	// ListAll 全部订单,按下单时间倒序(管理员)
	ListAll(ctx context.Context) ([]*Order, error)

	// FindDeliveredPurchase 用户最近一个包含该图书且已送达的订单
	// 没有则返回ErrPurchaseNotFound
	FindDeliveredPurchase(ctx context.Context, userID, bookID uint) (*Order, error)
}
