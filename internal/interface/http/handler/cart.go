package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/bookapp/internal/application/cart"
	"github.com/xiebiao/bookapp/internal/interface/http/dto"
	"github.com/xiebiao/bookapp/internal/interface/http/middleware"
	"github.com/xiebiao/bookapp/pkg/response"
)

// CartHandler 购物车HTTP处理器
// 所有接口只允许本人或管理员操作
type CartHandler struct {
	addItem     *appcart.AddItemUseCase
	setQuantity *appcart.SetQuantityUseCase
	removeItem  *appcart.RemoveItemUseCase
	clearCart   *appcart.ClearCartUseCase
	getCart     *appcart.GetCartUseCase
}

func NewCartHandler(
	addItem *appcart.AddItemUseCase,
	setQuantity *appcart.SetQuantityUseCase,
	removeItem *appcart.RemoveItemUseCase,
	clearCart *appcart.ClearCartUseCase,
	getCart *appcart.GetCartUseCase,
) *CartHandler {
	return &CartHandler{
		addItem:     addItem,
		setQuantity: setQuantity,
		removeItem:  removeItem,
		clearCart:   clearCart,
		getCart:     getCart,
	}
}

// AddItem 加入购物车
// @Summary      加入购物车
// @Description  已有该图书时数量累加,累加后不能超过库存
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "图书与数量"
// @Success      200 {object} response.Response{data=dto.CartLineResponse}
// @Failure      400 {object} response.Response "数量非法"
// @Failure      403 {object} response.Response "无权操作"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/cart [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if !middleware.AuthorizeUser(c, req.UserID) {
		return
	}

	line, err := h.addItem.Execute(c.Request.Context(), req.UserID, req.BookID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCartLineResponse(line))
}

// GetCart 查看购物车
// @Summary      查看购物车
// @Description  已删除的图书以占位记录返回(missing=true)
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "用户ID"
// @Success      200 {object} response.Response{data=[]dto.CartItemResponse}
// @Router       /api/v1/cart/{userId} [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	var uri dto.CartUserURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	if !middleware.AuthorizeUser(c, uri.UserID) {
		return
	}

	view, err := h.getCart.Execute(c.Request.Context(), uri.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCartItems(view.Lines))
}

// SetQuantity 修改数量
// @Summary      修改购物车数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path int                    true "用户ID"
// @Param        bookId  path int                    true "图书ID"
// @Param        request body dto.SetQuantityRequest true "数量"
// @Success      200 {object} response.Response{data=dto.CartLineResponse}
// @Failure      400 {object} response.Response "数量非法"
// @Failure      404 {object} response.Response "购物车中没有该图书"
// @Router       /api/v1/cart/{userId}/{bookId} [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var uri dto.CartItemURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	var req dto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if !middleware.AuthorizeUser(c, uri.UserID) {
		return
	}

	line, err := h.setQuantity.Execute(c.Request.Context(), uri.UserID, uri.BookID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCartLineResponse(line))
}

// RemoveItem 移除图书
// @Summary      从购物车移除图书
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "用户ID"
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/cart/{userId}/{bookId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var uri dto.CartItemURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	if !middleware.AuthorizeUser(c, uri.UserID) {
		return
	}

	if err := h.removeItem.Execute(c.Request.Context(), uri.UserID, uri.BookID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ClearCart 清空购物车
// @Summary      清空购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "用户ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/cart/{userId} [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	var uri dto.CartUserURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	if !middleware.AuthorizeUser(c, uri.UserID) {
		return
	}

	if err := h.clearCart.Execute(c.Request.Context(), uri.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
