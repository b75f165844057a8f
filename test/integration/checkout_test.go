//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCheckoutLifecycle 下单 → 状态流转 → 购买记录
func TestCheckoutLifecycle(t *testing.T) {
	RequireServer(t)
	adminToken := LoginAdmin(t)
	userID, token := RegisterTestUser(t, "buyer")

	b := CreateTestBook(t, adminToken, "《集成测试图书》", 12.5, 10)
	AddToCart(t, token, userID, b.ID, 2)

	resp := Do(t, http.MethodPost, "/orders", map[string]interface{}{
		"userId":         userID,
		"payment_method": "Credit Card",
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)
	o := Decode[OrderData](t, resp)
	assert.Equal(t, 25.0, o.TotalPrice)
	assert.Equal(t, "Pending", o.Status)

	resp = Do(t, http.MethodGet, fmt.Sprintf("/books/%d", b.ID), nil, "")
	assert.Equal(t, 8, Decode[BookData](t, resp).Stock)

	for _, status := range []string{"To Ship", "To Receive", "Delivered"} {
		resp = Do(t, http.MethodPut, "/orders/"+o.ID, map[string]string{"status": status}, adminToken)
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)
	}

	resp = Do(t, http.MethodGet, fmt.Sprintf("/orders/%d/purchases/%d", userID, b.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)
}

// TestConcurrentCheckout 多个用户抢购同一本书，库存不会被超卖
func TestConcurrentCheckout(t *testing.T) {
	RequireServer(t)
	adminToken := LoginAdmin(t)

	const buyers = 5
	b := CreateTestBook(t, adminToken, "《并发测试图书》", 10, 4)

	type buyer struct {
		id    uint
		token string
	}
	users := make([]buyer, buyers)
	for i := range users {
		id, token := RegisterTestUser(t, fmt.Sprintf("rush%d", i))
		AddToCart(t, token, id, b.ID, 2)
		users[i] = buyer{id: id, token: token}
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for _, u := range users {
		wg.Add(1)
		go func(u buyer) {
			defer wg.Done()
			resp := Do(t, http.MethodPost, "/orders", map[string]interface{}{
				"userId":         u.id,
				"payment_method": "PayPal",
			}, u.token)
			if resp.Status == http.StatusCreated {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(u)
	}
	wg.Wait()

	assert.Equal(t, 2, success)
	resp := Do(t, http.MethodGet, fmt.Sprintf("/books/%d", b.ID), nil, "")
	assert.Equal(t, 0, Decode[BookData](t, resp).Stock)
}
