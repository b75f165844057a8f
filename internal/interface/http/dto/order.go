package dto

import (
	"github.com/xiebiao/bookapp/internal/domain/order"
)

// PlaceOrderRequest 下单请求
// order_items与totalPrice为客户端展示值:明细必须与购物车一致,总价以服务端计算为准
type PlaceOrderRequest struct {
	UserID        uint               `json:"userId" binding:"required" example:"1"`
	OrderItems    []OrderItemRequest `json:"order_items" binding:"dive"`
	TotalPrice    *float64           `json:"totalPrice" example:"20.00"`
	PaymentMethod string             `json:"payment_method" binding:"required" example:"Cash on Delivery"`
}

type OrderItemRequest struct {
	Book     BookRef `json:"book"`
	Quantity int     `json:"quantity" binding:"required,min=1" example:"2"`
}

// BookRef 只带ID的图书引用
type BookRef struct {
	ID uint `json:"id" binding:"required" example:"1"`
}

// UpdateOrderStatusRequest 订单状态流转请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"To Ship"`
}

// OrderURI /orders/:id
type OrderURI struct {
	ID string `uri:"id" binding:"required"`
}

// UserOrdersURI /orders/:userId
type UserOrdersURI struct {
	UserID uint `uri:"userId" binding:"required,min=1"`
}

// PurchaseURI /orders/:userId/purchases/:bookId
type PurchaseURI struct {
	UserID uint `uri:"userId" binding:"required,min=1"`
	BookID uint `uri:"bookId" binding:"required,min=1"`
}

// OrderResponse 订单响应
type OrderResponse struct {
	ID            string              `json:"id" example:"3f1c2a9e-6c1b-4d7e-9b8a-2f4e5d6c7b8a"`
	UserID        uint                `json:"userId" example:"1"`
	OrderItems    []OrderItemResponse `json:"order_items"`
	TotalPrice    float64             `json:"totalPrice" example:"20.00"` // 元
	PaymentMethod string              `json:"payment_method" example:"Cash on Delivery"`
	Status        string              `json:"status" example:"Pending"`
	Date          string              `json:"date" example:"2024-11-06 10:30:00"`
	UpdatedAt     string              `json:"updated_at" example:"2024-11-06 10:30:00"`
}

type OrderItemResponse struct {
	Book     BookRef `json:"book"`
	Quantity int     `json:"quantity" example:"2"`
}

func NewOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{Book: BookRef{ID: item.BookID}, Quantity: item.Quantity}
	}
	return OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		OrderItems:    items,
		TotalPrice:    FromCents(o.TotalPrice),
		PaymentMethod: string(o.PaymentMethod),
		Status:        o.Status.String(),
		Date:          formatTime(o.CreatedAt),
		UpdatedAt:     formatTime(o.UpdatedAt),
	}
}

func NewOrderList(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = NewOrderResponse(o)
	}
	return out
}

// PurchaseResponse 已送达购买记录
type PurchaseResponse struct {
	OrderID string `json:"order_id" example:"3f1c2a9e-6c1b-4d7e-9b8a-2f4e5d6c7b8a"`
}
