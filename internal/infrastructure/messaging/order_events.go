package messaging

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/xiebiao/bookapp/internal/domain/order"
	"github.com/xiebiao/bookapp/pkg/circuitbreaker"
	"github.com/xiebiao/bookapp/pkg/metrics"
)

// 订单事件的routing key，订阅方可用order.*接收全部订单事件
const (
	RoutingKeyOrderCreated       = "order.created"
	RoutingKeyOrderStatusChanged = "order.status_changed"
)

// OrderEvent 订单事件消息体
type OrderEvent struct {
	OrderID        string           `json:"order_id"`
	UserID         uint             `json:"user_id"`
	Status         string           `json:"status"`
	PreviousStatus string           `json:"previous_status,omitempty"`
	TotalPrice     int64            `json:"total_price"` // 分
	PaymentMethod  string           `json:"payment_method"`
	Items          []OrderEventItem `json:"items"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

type OrderEventItem struct {
	BookID   uint `json:"book_id"`
	Quantity int  `json:"quantity"`
}

// Publisher 底层消息发布接口，由*mq.Publisher实现
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// OrderEventPublisher 订单事件发布者
// 发布经过熔断器：消息队列不可用时快速失败，不拖慢下单
type OrderEventPublisher struct {
	pub     Publisher
	breaker *circuitbreaker.CircuitBreaker
}

// NewOrderEventPublisher 创建订单事件发布者
func NewOrderEventPublisher(pub Publisher, cfg circuitbreaker.Config) *OrderEventPublisher {
	metrics.InitMetrics()

	cfg.OnStateChange = func(name string, _, to circuitbreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	}
	return &OrderEventPublisher{
		pub:     pub,
		breaker: circuitbreaker.NewCircuitBreaker("order-events", cfg),
	}
}

// OrderCreated 发布下单事件
func (p *OrderEventPublisher) OrderCreated(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, RoutingKeyOrderCreated, newOrderEvent(o, 0))
}

// OrderStatusChanged 发布状态流转事件
func (p *OrderEventPublisher) OrderStatusChanged(ctx context.Context, o *order.Order, from order.Status) error {
	return p.publish(ctx, RoutingKeyOrderStatusChanged, newOrderEvent(o, from))
}

func (p *OrderEventPublisher) publish(ctx context.Context, key string, event OrderEvent) error {
	err := p.breaker.Execute(func() error {
		return p.pub.Publish(ctx, key, event)
	})

	result := "success"
	switch {
	case circuitbreaker.IsRejected(err):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": p.breaker.Name(), "result": result})
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{"routing_key": key, "result": result})

	return err
}

func newOrderEvent(o *order.Order, from order.Status) OrderEvent {
	event := OrderEvent{
		OrderID:       o.ID,
		UserID:        o.UserID,
		Status:        o.Status.String(),
		TotalPrice:    o.TotalPrice,
		PaymentMethod: string(o.PaymentMethod),
		Items: lo.Map(o.Items, func(item order.OrderItem, _ int) OrderEventItem {
			return OrderEventItem{BookID: item.BookID, Quantity: item.Quantity}
		}),
		OccurredAt: time.Now(),
	}
	if from.Valid() {
		event.PreviousStatus = from.String()
	}
	return event
}

// NoopPublisher 未配置消息队列时使用
type NoopPublisher struct{}

func (NoopPublisher) OrderCreated(context.Context, *order.Order) error { return nil }

func (NoopPublisher) OrderStatusChanged(context.Context, *order.Order, order.Status) error {
	return nil
}
