package book

import (
	"strings"
	"time"
)

// DefaultCategory 未指定分类时使用
const DefaultCategory = "Uncategorized"

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ID由仓储在创建时分配(当前最大ID+1,空表从1开始)
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. Stock是唯一被并发争用的字段,只能通过仓储的原子扣减修改
type Book struct {
	ID          uint
	Title       string // 书名
	Author      string // 作者
	Price       int64  // 价格(单位:分)
	Stock       int    // 库存数量
	Category    string // 分类
	Description string // 图书描述
	Photo       string // 封面图片(URI)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fields 图书的可编辑字段
// 创建与更新共用,更新为全字段替换
type Fields struct {
	Title       string
	Author      string
	Price       int64
	Stock       int
	Category    string
	Description string
	Photo       string
}

// Normalize 去除首尾空白,填充默认分类
func (f Fields) Normalize() Fields {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == "" {
		f.Category = DefaultCategory
	}
	return f
}

// Validate 业务规则校验
// - 书名、作者必填
// - 价格>=0
// - 库存>=0
func (f Fields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(f.Author) == "" {
		return ErrAuthorRequired
	}
	if f.Price < 0 {
		return ErrInvalidPrice
	}
	if f.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// NewBook 创建新图书(工厂方法)
func NewBook(f Fields) (*Book, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Book{
		Title:       f.Title,
		Author:      f.Author,
		Price:       f.Price,
		Stock:       f.Stock,
		Category:    f.Category,
		Description: f.Description,
		Photo:       f.Photo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Replace 全字段替换(管理员编辑),ID与CreatedAt保持不变
func (b *Book) Replace(f Fields) error {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return err
	}

	b.Title = f.Title
	b.Author = f.Author
	b.Price = f.Price
	b.Stock = f.Stock
	b.Category = f.Category
	b.Description = f.Description
	b.Photo = f.Photo
	b.UpdatedAt = time.Now()
	return nil
}

// HasStock 库存是否足够购买quantity本
func (b *Book) HasStock(quantity int) bool {
	return quantity > 0 && b.Stock >= quantity
}

// DecrStock 扣减库存(内存中的实体)
// 持久化扣减由Repository.DecrStock完成,这里用于锁定后的业务校验
func (b *Book) DecrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidStock
	}
	if b.Stock < quantity {
		return ErrInsufficientStock.WithMessagef("《%s》库存不足,当前库存:%d,需要:%d", b.Title, b.Stock, quantity)
	}
	b.Stock -= quantity
	b.UpdatedAt = time.Now()
	return nil
}

// Subtotal 购买quantity本的金额(分)
func (b *Book) Subtotal(quantity int) int64 {
	return b.Price * int64(quantity)
}
