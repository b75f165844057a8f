package order

import (
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidTransition 非法的状态流转(只能向前一步)
	ErrInvalidTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态只能依次向前流转")

	// ErrInvalidStatus 未知的状态名称
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的订单状态")

	// ErrInvalidPaymentMethod 不支持的支付方式
	ErrInvalidPaymentMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的支付方式")

	// ErrEmptyCart 购物车为空,无法下单
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车为空")

	// ErrCartChanged 提交的明细与购物车不一致
	ErrCartChanged = apperrors.New(apperrors.ErrCodeCartChanged, "购物车已变化,请刷新后重新下单")

	// ErrPurchaseNotFound 没有已送达的购买记录
	ErrPurchaseNotFound = apperrors.New(apperrors.ErrCodePurchaseNotFound, "没有该图书已送达的订单")
)
