package dto

import (
	"github.com/xiebiao/bookapp/internal/domain/cart"
)

// AddCartItemRequest 加入购物车请求
// quantity不在binding中校验,由领域层返回InvalidQuantity
type AddCartItemRequest struct {
	UserID   uint `json:"userId" binding:"required" example:"1"`
	BookID   uint `json:"bookId" binding:"required" example:"1"`
	Quantity int  `json:"quantity" example:"1"`
}

// SetQuantityRequest 修改数量请求
type SetQuantityRequest struct {
	Quantity int `json:"quantity" example:"2"`
}

// CartUserURI /cart/:userId
type CartUserURI struct {
	UserID uint `uri:"userId" binding:"required,min=1"`
}

// CartItemURI /cart/:userId/:bookId
type CartItemURI struct {
	UserID uint `uri:"userId" binding:"required,min=1"`
	BookID uint `uri:"bookId" binding:"required,min=1"`
}

// CartLineResponse 购物车行
type CartLineResponse struct {
	UserID   uint `json:"userId" example:"1"`
	BookID   uint `json:"bookId" example:"1"`
	Quantity int  `json:"quantity" example:"2"`
}

func NewCartLineResponse(l *cart.Line) CartLineResponse {
	return CartLineResponse{UserID: l.UserID, BookID: l.BookID, Quantity: l.Quantity}
}

// CartItemResponse 带图书信息的购物车行
// missing=true表示图书已被删除,book只有id和占位书名
type CartItemResponse struct {
	Book     BookResponse `json:"book"`
	Quantity int          `json:"quantity" example:"2"`
	Missing  bool         `json:"missing"`
}

func NewCartItems(lines []cart.EnrichedLine) []CartItemResponse {
	out := make([]CartItemResponse, len(lines))
	for i, l := range lines {
		out[i] = CartItemResponse{
			Book:     NewBookResponse(l.Book),
			Quantity: l.Quantity,
			Missing:  l.Missing,
		}
	}
	return out
}
