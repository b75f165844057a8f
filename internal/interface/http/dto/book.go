package dto

import (
	"math"
	"time"

	"github.com/xiebiao/bookapp/internal/domain/book"
)

// timeLayout 响应中的时间格式
const timeLayout = "2006-01-02 15:04:05"

// BookRequest 上架/编辑图书请求(编辑为全字段替换)
// 价格以"元"为单位传输,进入领域层前换算为"分"
type BookRequest struct {
	Title       string   `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author      string   `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Price       *float64 `json:"price" binding:"required,min=0" example:"59.00"`
	Stock       *int     `json:"stock" binding:"required,min=0" example:"100"`
	Category    string   `json:"category" binding:"max=50" example:"Programming"`
	Description string   `json:"description" binding:"max=5000" example:"这是一本关于Go语言的实战书籍"`
	Photo       string   `json:"photo" binding:"max=500" example:"https://example.com/cover.jpg"`
}

// Fields 转换为领域层的可编辑字段
func (r *BookRequest) Fields() book.Fields {
	f := book.Fields{
		Title:       r.Title,
		Author:      r.Author,
		Category:    r.Category,
		Description: r.Description,
		Photo:       r.Photo,
	}
	if r.Price != nil {
		f.Price = ToCents(*r.Price)
	}
	if r.Stock != nil {
		f.Stock = *r.Stock
	}
	return f
}

// BookURI 路径中的图书ID
type BookURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

// ListBooksRequest 图书列表查询参数
type ListBooksRequest struct {
	Keyword  string `form:"keyword" binding:"max=100" example:"Go"`
	Category string `form:"category" binding:"max=50" example:"Programming"`
}

// BookResponse 图书响应
type BookResponse struct {
	ID          uint    `json:"id" example:"1"`
	Title       string  `json:"title" example:"Go语言实战"`
	Author      string  `json:"author,omitempty" example:"威廉·肯尼迪"`
	Price       float64 `json:"price" example:"59.00"` // 元
	Stock       int     `json:"stock" example:"100"`
	Category    string  `json:"category,omitempty" example:"Programming"`
	Description string  `json:"description,omitempty"`
	Photo       string  `json:"photo,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty" example:"2024-01-15 10:30:00"`
	UpdatedAt   string  `json:"updated_at,omitempty" example:"2024-01-15 10:30:00"`
}

func NewBookResponse(b *book.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Price:       FromCents(b.Price),
		Stock:       b.Stock,
		Category:    b.Category,
		Description: b.Description,
		Photo:       b.Photo,
		CreatedAt:   formatTime(b.CreatedAt),
		UpdatedAt:   formatTime(b.UpdatedAt),
	}
}

func NewBookList(books []*book.Book) []BookResponse {
	out := make([]BookResponse, len(books))
	for i, b := range books {
		out[i] = NewBookResponse(b)
	}
	return out
}

// ToCents 元 → 分(四舍五入)
//
//	ToCents(19.99) == 1999
func ToCents(yuan float64) int64 {
	return int64(math.Round(yuan * 100))
}

// FromCents 分 → 元
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
