package order

import (
	"context"

	"github.com/xiebiao/bookapp/internal/domain/order"
)

// ListOrdersUseCase 订单查询,按下单时间倒序
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// ByUser 用户自己的订单
func (uc *ListOrdersUseCase) ByUser(ctx context.Context, userID uint) ([]*order.Order, error) {
	return uc.orderRepo.ListByUserID(ctx, userID)
}

// All 全部订单(管理员)
func (uc *ListOrdersUseCase) All(ctx context.Context) ([]*order.Order, error) {
	return uc.orderRepo.ListAll(ctx)
}

// FindPurchaseUseCase 已送达购买记录查询
// 供外部评价组件校验"只有收到货的买家才能评价"
type FindPurchaseUseCase struct {
	orderRepo order.Repository
}

func NewFindPurchaseUseCase(orderRepo order.Repository) *FindPurchaseUseCase {
	return &FindPurchaseUseCase{orderRepo: orderRepo}
}

// Execute 返回最近一个包含该图书且已送达的订单ID,没有则返回ErrPurchaseNotFound
func (uc *FindPurchaseUseCase) Execute(ctx context.Context, userID, bookID uint) (string, error) {
	o, err := uc.orderRepo.FindDeliveredPurchase(ctx, userID, bookID)
	if err != nil {
		return "", err
	}
	return o.ID, nil
}
