package cart

import (
	"errors"

	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

var (
	// ErrLineNotFound 购物车中没有该图书
	ErrLineNotFound = apperrors.New(apperrors.ErrCodeCartLineNotFound, "购物车中没有该图书")

	// ErrInvalidQuantity 数量必须在1到库存之间
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidQuantity, "数量必须在1到库存之间")
)

// ErrCacheMiss 缓存未命中(内部使用,不会返回给客户端)
var ErrCacheMiss = errors.New("cart cache miss")
