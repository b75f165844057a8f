package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookapp/internal/domain/order"
	"github.com/xiebiao/bookapp/pkg/circuitbreaker"
)

type recordingPublisher struct {
	mu    sync.Mutex
	keys  []string
	msgs  []OrderEvent
	err   error
	calls int
}

func (r *recordingPublisher) Publish(_ context.Context, key string, message interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.keys = append(r.keys, key)
	r.msgs = append(r.msgs, message.(OrderEvent))
	return nil
}

func testBreakerConfig() circuitbreaker.Config {
	return circuitbreaker.Config{MaxRequests: 1, Timeout: time.Minute, FailureThreshold: 2}
}

func TestOrderEventPublisher_Events(t *testing.T) {
	rec := &recordingPublisher{}
	p := NewOrderEventPublisher(rec, testBreakerConfig())
	ctx := context.Background()

	o := order.NewOrder(order.NewID(), 3, []order.OrderItem{{BookID: 1, Quantity: 2}}, 5000, order.PaymentCreditCard)
	require.NoError(t, p.OrderCreated(ctx, o))

	require.NoError(t, o.TransitionTo(order.StatusToShip))
	require.NoError(t, p.OrderStatusChanged(ctx, o, order.StatusPending))

	require.Equal(t, []string{RoutingKeyOrderCreated, RoutingKeyOrderStatusChanged}, rec.keys)

	created := rec.msgs[0]
	assert.Equal(t, o.ID, created.OrderID)
	assert.Equal(t, "Pending", created.Status)
	assert.Empty(t, created.PreviousStatus)
	assert.Equal(t, []OrderEventItem{{BookID: 1, Quantity: 2}}, created.Items)
	assert.Equal(t, "Credit Card", created.PaymentMethod)

	changed := rec.msgs[1]
	assert.Equal(t, "To Ship", changed.Status)
	assert.Equal(t, "Pending", changed.PreviousStatus)
}

func TestOrderEventPublisher_BreakerOpens(t *testing.T) {
	rec := &recordingPublisher{err: errors.New("broker down")}
	p := NewOrderEventPublisher(rec, testBreakerConfig())
	ctx := context.Background()
	o := order.NewOrder(order.NewID(), 1, nil, 0, order.PaymentPayPal)

	assert.Error(t, p.OrderCreated(ctx, o))
	assert.Error(t, p.OrderCreated(ctx, o))

	// 熔断后不再调用底层发布
	err := p.OrderCreated(ctx, o)
	assert.True(t, circuitbreaker.IsRejected(err))
	assert.Equal(t, 2, rec.calls)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.OrderCreated(context.Background(), &order.Order{}))
	assert.NoError(t, p.OrderStatusChanged(context.Background(), &order.Order{}, order.StatusPending))
}
