package order

import (
	"context"

	"github.com/xiebiao/bookapp/internal/domain/order"
	"github.com/xiebiao/bookapp/pkg/logger"
	"github.com/xiebiao/bookapp/pkg/metrics"
)

// UpdateStatusUseCase 订单状态流转(管理员)
// 只能流转到紧邻的下一个状态:Pending → To Ship → To Receive → Delivered
type UpdateStatusUseCase struct {
	txManager TxManager
	orderRepo order.Repository
	publisher EventPublisher
}

func NewUpdateStatusUseCase(txManager TxManager, orderRepo order.Repository, publisher EventPublisher) *UpdateStatusUseCase {
	metrics.InitMetrics()
	return &UpdateStatusUseCase{
		txManager: txManager,
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// Execute status为状态名称(忽略大小写),如"To Ship"
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, orderID, status string) (*order.Order, error) {
	target, err := order.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var (
		updated *order.Order
		from    order.Status
	)
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.LockByID(txCtx, orderID)
		if err != nil {
			return err
		}

		from = o.Status
		if err := o.TransitionTo(target); err != nil {
			return err
		}
		if err := uc.orderRepo.Update(txCtx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.OrderStatusTransitions, map[string]string{
		"from": from.String(),
		"to":   updated.Status.String(),
	})
	log := logger.Ctx(ctx)
	if err := uc.publisher.OrderStatusChanged(ctx, updated, from); err != nil {
		log.Warn().Err(err).Str("order_id", updated.ID).Msg("发布状态变更事件失败")
	}
	log.Info().
		Str("order_id", updated.ID).
		Str("from", from.String()).
		Str("to", updated.Status.String()).
		Msg("订单状态已更新")
	return updated, nil
}
