package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookapp/internal/domain/order"
)

func placeOne(t *testing.T, f *fixture, userID uint) *order.Order {
	t.Helper()
	b := f.seedBook(t, "Book", 1000, 10)
	f.add(t, userID, b.ID, 1)
	o, err := f.placeOrder.Execute(context.Background(), PlaceOrderRequest{UserID: userID, PaymentMethod: "PayPal"})
	require.NoError(t, err)
	return o
}

func TestUpdateStatus_ForwardOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := placeOne(t, f, 1)

	// 不能跳过中间状态
	_, err := f.updateStatus.Execute(ctx, o.ID, "Delivered")
	assert.ErrorIs(t, err, order.ErrInvalidTransition)

	for _, next := range []string{"To Ship", "to receive", "DELIVERED"} {
		_, err := f.updateStatus.Execute(ctx, o.ID, next)
		require.NoError(t, err, next)
	}

	saved, err := f.orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, saved.Status)

	// 终态不能再变更,也不能回退
	_, err = f.updateStatus.Execute(ctx, o.ID, "Pending")
	assert.ErrorIs(t, err, order.ErrInvalidTransition)

	assert.Equal(t, []string{
		"Pending->To Ship",
		"To Ship->To Receive",
		"To Receive->Delivered",
	}, f.events.changed)
}

func TestUpdateStatus_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := placeOne(t, f, 1)

	_, err := f.updateStatus.Execute(ctx, o.ID, "Shipped")
	assert.ErrorIs(t, err, order.ErrInvalidStatus)

	_, err = f.updateStatus.Execute(ctx, "00000000-0000-0000-0000-000000000000", "To Ship")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestListOrdersAndFindPurchase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := placeOne(t, f, 1)
	placeOne(t, f, 2)

	mine, err := f.listOrders.ByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	all, err := f.listOrders.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bookID := first.Items[0].BookID
	_, err = f.findPurchase.Execute(ctx, 1, bookID)
	assert.ErrorIs(t, err, order.ErrPurchaseNotFound)

	for _, s := range []string{"To Ship", "To Receive", "Delivered"} {
		_, err := f.updateStatus.Execute(ctx, first.ID, s)
		require.NoError(t, err)
	}

	id, err := f.findPurchase.Execute(ctx, 1, bookID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, id)

	// 其他用户没有购买记录
	_, err = f.findPurchase.Execute(ctx, 2, bookID)
	assert.ErrorIs(t, err, order.ErrPurchaseNotFound)
}
