package cart

import (
	"context"

	"github.com/samber/lo"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/internal/domain/cart"
)

// GetCartUseCase 查看购物车(拼接当前图书信息)
type GetCartUseCase struct {
	reader   *Reader
	bookRepo book.Repository
}

func NewGetCartUseCase(reader *Reader, bookRepo book.Repository) *GetCartUseCase {
	return &GetCartUseCase{reader: reader, bookRepo: bookRepo}
}

// CartView 购物车视图
// Total只统计仍在目录中的图书,按当前价格计算(分)
type CartView struct {
	Lines []cart.EnrichedLine
	Total int64
}

func (uc *GetCartUseCase) Execute(ctx context.Context, userID uint) (*CartView, error) {
	lines, err := uc.reader.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := lo.Map(lines, func(l cart.Line, _ int) uint { return l.BookID })
	books, err := uc.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	enriched := cart.Enrich(lines, books)
	total := lo.SumBy(enriched, func(l cart.EnrichedLine) int64 {
		if l.Missing {
			return 0
		}
		return l.Book.Subtotal(l.Quantity)
	})
	return &CartView{Lines: enriched, Total: total}, nil
}

// ListItemsUseCase 购物车原始行(不拼接图书信息)
type ListItemsUseCase struct {
	reader *Reader
}

func NewListItemsUseCase(reader *Reader) *ListItemsUseCase {
	return &ListItemsUseCase{reader: reader}
}

func (uc *ListItemsUseCase) Execute(ctx context.Context, userID uint) ([]cart.Line, error) {
	return uc.reader.Lines(ctx, userID)
}
