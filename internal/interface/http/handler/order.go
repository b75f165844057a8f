package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookapp/internal/application/order"
	"github.com/xiebiao/bookapp/internal/interface/http/dto"
	"github.com/xiebiao/bookapp/internal/interface/http/middleware"
	"github.com/xiebiao/bookapp/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	placeOrder   *apporder.PlaceOrderUseCase
	updateStatus *apporder.UpdateStatusUseCase
	listOrders   *apporder.ListOrdersUseCase
	findPurchase *apporder.FindPurchaseUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	placeOrder *apporder.PlaceOrderUseCase,
	updateStatus *apporder.UpdateStatusUseCase,
	listOrders *apporder.ListOrdersUseCase,
	findPurchase *apporder.FindPurchaseUseCase,
) *OrderHandler {
	return &OrderHandler{
		placeOrder:   placeOrder,
		updateStatus: updateStatus,
		listOrders:   listOrders,
		findPurchase: findPurchase,
	}
}

// PlaceOrder 下单(购物车结算)
// @Summary      下单
// @Description  把购物车转换为订单:扣减库存、清空购物车,全部在一个事务内完成
// @Description  order_items必须与购物车一致;totalPrice只用于对账,以服务端计算为准
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PlaceOrderRequest true "下单信息"
// @Success      201 {object} response.Response{data=dto.OrderResponse}
// @Failure      400 {object} response.Response "购物车为空/库存不足/购物车已变化"
// @Failure      403 {object} response.Response "无权操作"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if !middleware.AuthorizeUser(c, req.UserID) {
		return
	}

	ucReq := apporder.PlaceOrderRequest{
		UserID:        req.UserID,
		PaymentMethod: req.PaymentMethod,
	}
	if req.OrderItems != nil {
		ucReq.Items = make([]apporder.ExpectedItem, len(req.OrderItems))
		for i, item := range req.OrderItems {
			ucReq.Items[i] = apporder.ExpectedItem{BookID: item.Book.ID, Quantity: item.Quantity}
		}
	}
	if req.TotalPrice != nil {
		total := dto.ToCents(*req.TotalPrice)
		ucReq.ClientTotal = &total
	}

	o, err := h.placeOrder.Execute(c.Request.Context(), ucReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewOrderResponse(o))
}

// ListAllOrders 全部订单(管理员)
// @Summary      全部订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.OrderResponse}
// @Failure      403 {object} response.Response "非管理员"
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	orders, err := h.listOrders.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderList(orders))
}

// ListUserOrders 用户订单
// @Summary      用户订单
// @Description  按下单时间倒序
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "用户ID"
// @Success      200 {object} response.Response{data=[]dto.OrderResponse}
// @Router       /api/v1/orders/{userId} [get]
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	var uri dto.UserOrdersURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	if !middleware.AuthorizeUser(c, uri.UserID) {
		return
	}

	orders, err := h.listOrders.ByUser(c.Request.Context(), uri.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderList(orders))
}

// FindPurchase 已送达购买记录
// @Summary      已送达购买记录
// @Description  返回用户最近一个包含该图书且已送达的订单ID,供评价服务校验
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "用户ID"
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.PurchaseResponse}
// @Failure      404 {object} response.Response "没有购买记录"
// @Router       /api/v1/orders/{userId}/purchases/{bookId} [get]
func (h *OrderHandler) FindPurchase(c *gin.Context) {
	var uri dto.PurchaseURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	if !middleware.AuthorizeUser(c, uri.UserID) {
		return
	}

	orderID, err := h.findPurchase.Execute(c.Request.Context(), uri.UserID, uri.BookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.PurchaseResponse{OrderID: orderID})
}

// UpdateStatus 订单状态流转(管理员)
// @Summary      更新订单状态
// @Description  只能流转到下一个状态:Pending → To Ship → To Receive → Delivered
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                       true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      400 {object} response.Response "非法流转"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var uri dto.OrderURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	o, err := h.updateStatus.Execute(c.Request.Context(), uri.ID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderResponse(o))
}
