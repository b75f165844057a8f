package order

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/internal/domain/cart"
	"github.com/xiebiao/bookapp/internal/domain/order"
	"github.com/xiebiao/bookapp/pkg/logger"
	"github.com/xiebiao/bookapp/pkg/metrics"
	"github.com/xiebiao/bookapp/pkg/tracing"
)

const tracerName = "order"

// TxManager 事务管理器(由gormdb.TxManager实现)
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 订单事件发布(由messaging.OrderEventPublisher实现)
type EventPublisher interface {
	OrderCreated(ctx context.Context, o *order.Order) error
	OrderStatusChanged(ctx context.Context, o *order.Order, from order.Status) error
}

// PlaceOrderUseCase 下单用例(购物车 → 订单)
// 整个流程在一个事务内完成,任何一步失败都整体回滚:
// 不会留下没扣库存的订单,也不会出现扣了库存却没有订单
type PlaceOrderUseCase struct {
	txManager TxManager
	bookRepo  book.Repository
	cartRepo  cart.Repository
	orderRepo order.Repository
	cartCache cart.Cache
	publisher EventPublisher
}

// NewPlaceOrderUseCase 创建下单用例
func NewPlaceOrderUseCase(
	txManager TxManager,
	bookRepo book.Repository,
	cartRepo cart.Repository,
	orderRepo order.Repository,
	cartCache cart.Cache,
	publisher EventPublisher,
) *PlaceOrderUseCase {
	metrics.InitMetrics()
	return &PlaceOrderUseCase{
		txManager: txManager,
		bookRepo:  bookRepo,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		cartCache: cartCache,
		publisher: publisher,
	}
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	UserID        uint
	PaymentMethod string

	// Items 客户端展示的购物车明细,nil表示未提交(不做一致性校验)
	Items []ExpectedItem

	// ClientTotal 客户端计算的总价(分),只用于对账日志
	ClientTotal *int64
}

// ExpectedItem 客户端提交的明细
type ExpectedItem struct {
	BookID   uint
	Quantity int
}

// Execute 执行下单
//
// 防止超卖:
//  1. 按图书ID升序 SELECT ... FOR UPDATE(固定加锁顺序避免死锁)
//  2. 锁定后校验库存
//  3. UPDATE books SET stock = stock - ? WHERE id = ? AND stock >= ?
//  4. COMMIT释放锁
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, req PlaceOrderRequest) (*order.Order, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "PlaceOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", int64(req.UserID)))

	start := time.Now()
	created, err := uc.place(ctx, req)
	if err != nil {
		reason := failureReason(err)
		metrics.IncCounterVec(metrics.OrdersFailedTotal, map[string]string{"reason": reason})
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	metrics.OrderRevenueCentsTotal.Add(float64(created.TotalPrice))
	metrics.OrderCreationDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.String("order.id", created.ID),
		attribute.Int64("order.total_price", created.TotalPrice),
	)

	log := logger.Ctx(ctx)
	if req.ClientTotal != nil && *req.ClientTotal != created.TotalPrice {
		log.Warn().
			Str("order_id", created.ID).
			Int64("client_total", *req.ClientTotal).
			Int64("total_price", created.TotalPrice).
			Msg("客户端总价与服务端计算不一致,以服务端为准")
	}

	// 事务已提交,缓存与事件失败都不影响下单结果
	if err := uc.cartCache.Invalidate(ctx, req.UserID); err != nil {
		log.Error().Err(err).Uint("user_id", req.UserID).Msg("删除购物车缓存失败")
	}
	if err := uc.publisher.OrderCreated(ctx, created); err != nil {
		log.Warn().Err(err).Str("order_id", created.ID).Msg("发布下单事件失败")
	}

	log.Info().
		Str("order_id", created.ID).
		Uint("user_id", created.UserID).
		Int64("total_price", created.TotalPrice).
		Int("items", len(created.Items)).
		Msg("下单成功")
	return created, nil
}

func (uc *PlaceOrderUseCase) place(ctx context.Context, req PlaceOrderRequest) (*order.Order, error) {
	pm, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var created *order.Order
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 读取购物车(事务内,以数据库为准)
		lines, err := uc.cartRepo.ListByUser(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return order.ErrEmptyCart
		}
		if req.Items != nil && !matchesCart(req.Items, lines) {
			return order.ErrCartChanged
		}

		// 2. 按ID升序锁定图书并校验库存(ListByUser已按BookID升序)
		books := make(map[uint]*book.Book, len(lines))
		for _, l := range lines {
			b, err := uc.bookRepo.LockByID(txCtx, l.BookID)
			if err != nil {
				return err
			}
			if err := b.DecrStock(l.Quantity); err != nil {
				return err
			}
			books[l.BookID] = b
		}

		// 3. 按当前价格计算总价,之后不再重算
		total := lo.SumBy(lines, func(l cart.Line) int64 {
			return books[l.BookID].Subtotal(l.Quantity)
		})

		// 4. 明细快照,只保存图书ID与数量
		items := lo.Map(lines, func(l cart.Line, _ int) order.OrderItem {
			return order.OrderItem{BookID: l.BookID, Quantity: l.Quantity}
		})

		o := order.NewOrder(order.NewID(), req.UserID, items, total, pm)
		if err := uc.orderRepo.Create(txCtx, o); err != nil {
			return err
		}

		// 5. 原子扣减库存
		for _, l := range lines {
			if err := uc.bookRepo.DecrStock(txCtx, l.BookID, l.Quantity); err != nil {
				return err
			}
		}

		// 6. 清空购物车
		if err := uc.cartRepo.ClearByUser(txCtx, req.UserID); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// matchesCart 客户端明细与购物车是否一致(bookID → quantity)
// 同一图书出现多次时数量累加
func matchesCart(expected []ExpectedItem, lines []cart.Line) bool {
	want := make(map[uint]int, len(expected))
	for _, item := range expected {
		want[item.BookID] += item.Quantity
	}
	if len(want) != len(lines) {
		return false
	}
	for _, l := range lines {
		if q, ok := want[l.BookID]; !ok || q != l.Quantity {
			return false
		}
	}
	return true
}

// failureReason 下单失败原因(指标标签)
func failureReason(err error) string {
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, order.ErrCartChanged):
		return "cart_changed"
	case errors.Is(err, book.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, book.ErrBookNotFound):
		return "book_not_found"
	case errors.Is(err, order.ErrInvalidPaymentMethod):
		return "invalid_payment_method"
	default:
		return "internal"
	}
}
