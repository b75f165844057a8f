package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 事务通过context传递,LockByID/DecrStock必须在事务内调用
type Repository interface {
	// Create 创建图书,分配ID = 当前最大ID+1
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查找,不存在的ID直接忽略
	FindByIDs(ctx context.Context, ids []uint) ([]*Book, error)

	// Update 全字段更新
	Update(ctx context.Context, book *Book) error

	// Delete 物理删除
	Delete(ctx context.Context, id uint) error

	// List 查询图书列表(按ID升序)
	List(ctx context.Context, params ListParams) ([]*Book, error)

	// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
	LockByID(ctx context.Context, id uint) (*Book, error)

	// DecrStock 原子扣减库存
	// UPDATE books SET stock = stock - ? WHERE id = ? AND stock >= ?
	// 库存不足返回ErrInsufficientStock,图书不存在返回ErrBookNotFound
	DecrStock(ctx context.Context, id uint, quantity int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Keyword  string // 搜索关键词(标题、作者)
	Category string // 分类精确匹配
}
