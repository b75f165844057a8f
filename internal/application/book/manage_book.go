package book

import (
	"context"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/pkg/logger"
)

// UpdateBookUseCase 编辑图书(管理员,全字段替换)
type UpdateBookUseCase struct {
	bookService book.Service
}

func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, f book.Fields) (*book.Book, error) {
	return uc.bookService.UpdateBook(ctx, id, f)
}

// DeleteBookUseCase 删除图书(管理员)
// 已下的订单只保存图书ID快照,不受影响;购物车中的行会显示为占位图书
type DeleteBookUseCase struct {
	bookService book.Service
}

func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService}
}

// Execute 删除并返回被删除的图书
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) (*book.Book, error) {
	b, err := uc.bookService.DeleteBook(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().Uint("book_id", b.ID).Str("title", b.Title).Msg("图书已删除")
	return b, nil
}
