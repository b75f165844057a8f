package cart

import (
	"context"
	"errors"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/internal/domain/cart"
	"github.com/xiebiao/bookapp/pkg/metrics"
)

// AddItemUseCase 加入购物车
// 业务规则:
// 1. quantity >= 1
// 2. 累加后的数量不能超过当前库存(库存为0的图书无法加入)
// 3. 同一图书重复加入时数量累加,不产生新行
type AddItemUseCase struct {
	txManager TxManager
	bookRepo  book.Repository
	cartRepo  cart.Repository
	reader    *Reader
}

func NewAddItemUseCase(txManager TxManager, bookRepo book.Repository, cartRepo cart.Repository, reader *Reader) *AddItemUseCase {
	return &AddItemUseCase{
		txManager: txManager,
		bookRepo:  bookRepo,
		cartRepo:  cartRepo,
		reader:    reader,
	}
}

// Execute 返回累加后的购物车行
func (uc *AddItemUseCase) Execute(ctx context.Context, userID, bookID uint, quantity int) (*cart.Line, error) {
	if quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	var line *cart.Line
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 锁定图书行,库存校验与写入之间库存不会被下单扣走
		b, err := uc.bookRepo.LockByID(txCtx, bookID)
		if err != nil {
			return err
		}

		existing := 0
		current, err := uc.cartRepo.FindLine(txCtx, userID, bookID)
		switch {
		case err == nil:
			existing = current.Quantity
		case !errors.Is(err, cart.ErrLineNotFound):
			return err
		}

		if err := cart.ValidateQuantity(b, existing+quantity); err != nil {
			return err
		}
		if err := uc.cartRepo.AddQuantity(txCtx, userID, bookID, quantity); err != nil {
			return err
		}

		line, err = uc.cartRepo.FindLine(txCtx, userID, bookID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.reader.Invalidate(ctx, userID)
	metrics.IncCounterVec(metrics.CartOperationsTotal, map[string]string{"op": "add"})
	return line, nil
}

// SetQuantityUseCase 修改购物车中某本图书的数量(覆盖)
type SetQuantityUseCase struct {
	txManager TxManager
	bookRepo  book.Repository
	cartRepo  cart.Repository
	reader    *Reader
}

func NewSetQuantityUseCase(txManager TxManager, bookRepo book.Repository, cartRepo cart.Repository, reader *Reader) *SetQuantityUseCase {
	return &SetQuantityUseCase{
		txManager: txManager,
		bookRepo:  bookRepo,
		cartRepo:  cartRepo,
		reader:    reader,
	}
}

// Execute 购物车中没有该图书返回ErrLineNotFound,数量不在[1, stock]返回ErrInvalidQuantity
func (uc *SetQuantityUseCase) Execute(ctx context.Context, userID, bookID uint, quantity int) (*cart.Line, error) {
	if quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	var line *cart.Line
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		current, err := uc.cartRepo.FindLine(txCtx, userID, bookID)
		if err != nil {
			return err
		}

		b, err := uc.bookRepo.LockByID(txCtx, bookID)
		if err != nil {
			return err
		}
		if err := cart.ValidateQuantity(b, quantity); err != nil {
			return err
		}
		if err := uc.cartRepo.SetQuantity(txCtx, userID, bookID, quantity); err != nil {
			return err
		}

		current.Quantity = quantity
		line = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.reader.Invalidate(ctx, userID)
	metrics.IncCounterVec(metrics.CartOperationsTotal, map[string]string{"op": "set"})
	return line, nil
}

// RemoveItemUseCase 从购物车移除图书(幂等)
type RemoveItemUseCase struct {
	cartRepo cart.Repository
	reader   *Reader
}

func NewRemoveItemUseCase(cartRepo cart.Repository, reader *Reader) *RemoveItemUseCase {
	return &RemoveItemUseCase{cartRepo: cartRepo, reader: reader}
}

func (uc *RemoveItemUseCase) Execute(ctx context.Context, userID, bookID uint) error {
	if err := uc.cartRepo.Remove(ctx, userID, bookID); err != nil {
		return err
	}
	uc.reader.Invalidate(ctx, userID)
	metrics.IncCounterVec(metrics.CartOperationsTotal, map[string]string{"op": "remove"})
	return nil
}

// ClearCartUseCase 清空购物车(幂等)
type ClearCartUseCase struct {
	cartRepo cart.Repository
	reader   *Reader
}

func NewClearCartUseCase(cartRepo cart.Repository, reader *Reader) *ClearCartUseCase {
	return &ClearCartUseCase{cartRepo: cartRepo, reader: reader}
}

func (uc *ClearCartUseCase) Execute(ctx context.Context, userID uint) error {
	if err := uc.cartRepo.ClearByUser(ctx, userID); err != nil {
		return err
	}
	uc.reader.Invalidate(ctx, userID)
	metrics.IncCounterVec(metrics.CartOperationsTotal, map[string]string{"op": "clear"})
	return nil
}
