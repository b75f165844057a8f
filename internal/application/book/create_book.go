package book

import (
	"context"

	"github.com/xiebiao/bookapp/internal/domain/book"
)

// CreateBookUseCase 图书上架用例(管理员)
// 应用层负责用例编排,业务规则校验由领域服务完成
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建上架用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService}
}

// Execute 执行上架,ID由仓储分配
func (uc *CreateBookUseCase) Execute(ctx context.Context, f book.Fields) (*book.Book, error) {
	return uc.bookService.CreateBook(ctx, f)
}
