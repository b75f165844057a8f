package cart

import (
	"time"

	"github.com/xiebiao/bookapp/internal/domain/book"
)

// UnknownBookTitle 购物车中已被删除的图书显示的占位书名
const UnknownBookTitle = "Unknown Book"

// Line 购物车行
// 身份 = (UserID, BookID),数据库层有联合唯一索引
// Quantity在变更时保证处于[1, book.Stock]区间;数量归零即删除该行
type Line struct {
	UserID    uint      `json:"user_id"`
	BookID    uint      `json:"book_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EnrichedLine 带图书信息的购物车行
// Missing=true表示图书已被删除,Book只有ID和占位书名
type EnrichedLine struct {
	Book     *book.Book
	Quantity int
	Missing  bool
}

// Enrich 把购物车行与图书目录拼接
// 找不到的图书用占位记录代替,不丢弃也不报错,方便调用方后续移除
func Enrich(lines []Line, books []*book.Book) []EnrichedLine {
	byID := make(map[uint]*book.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	out := make([]EnrichedLine, len(lines))
	for i, l := range lines {
		b, ok := byID[l.BookID]
		if !ok {
			out[i] = EnrichedLine{
				Book:     &book.Book{ID: l.BookID, Title: UnknownBookTitle},
				Quantity: l.Quantity,
				Missing:  true,
			}
			continue
		}
		out[i] = EnrichedLine{Book: b, Quantity: l.Quantity}
	}
	return out
}

// ValidateQuantity 校验购物车数量是否落在[1, b.Stock]
func ValidateQuantity(b *book.Book, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if !b.HasStock(quantity) {
		return ErrInvalidQuantity.WithMessagef("《%s》最多可购买%d本", b.Title, b.Stock)
	}
	return nil
}
