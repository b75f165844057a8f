package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookapp/internal/domain/book"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// maxCreateAttempts 并发创建时ID冲突的重试次数
const maxCreateAttempts = 3

// bookRepository 图书仓储实现
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 所有查询都通过getDB(ctx)参与外层事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
// ID = 当前最大ID+1(空表从1开始),读最大值与插入在同一事务中
// 并发创建撞上同一ID时主键冲突,重新分配
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		err := r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
			var maxID uint
			if err := tx.Model(&BookModel{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
				return err
			}
			model.ID = maxID + 1
			return tx.Create(model).Error
		})
		if err == nil {
			b.ID = model.ID
			b.CreatedAt = model.CreatedAt
			b.UpdatedAt = model.UpdatedAt
			return nil
		}
		if !isDuplicateError(err) {
			return apperrors.Wrap(err, "创建图书失败")
		}
		lastErr = err
	}

	return apperrors.Wrap(lastErr, "分配图书ID失败")
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByIDs 批量查找(购物车拼接图书信息),结果按ID升序
func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	if len(ids) == 0 {
		return []*book.Book{}, nil
	}

	var models []BookModel
	if err := r.getDB(ctx).Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "批量查询图书失败")
	}
	return toBookEntities(models), nil
}

// Update 全字段更新
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	// 使用map更新,零值(价格0、库存0)也会写入
	result := r.getDB(ctx).Model(&BookModel{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":       b.Title,
		"author":      b.Author,
		"price":       b.Price,
		"stock":       b.Stock,
		"category":    b.Category,
		"description": b.Description,
		"photo":       b.Photo,
		"updated_at":  b.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Delete 删除图书(物理删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 查询图书列表
// 关键词匹配标题或作者,分类精确匹配,结果按ID升序
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, error) {
	query := r.getDB(ctx).Model(&BookModel{})

	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR author LIKE ?", keyword, keyword)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	var models []BookModel
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}
	return toBookEntities(models), nil
}

// LockByID 悲观锁查询图书(用于下单与加入购物车)
// SELECT ... FOR UPDATE;SQLite驱动会忽略该子句,由单连接保证串行
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// DecrStock 原子扣减库存
// UPDATE books SET stock = stock - ? WHERE id = ? AND stock >= ?
func (r *bookRepository) DecrStock(ctx context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return book.ErrInvalidStock
	}

	db := r.getDB(ctx)
	result := db.Model(&BookModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "扣减库存失败")
	}

	if result.RowsAffected == 0 {
		// 图书不存在或库存不足,再查一次确定原因
		b, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return book.ErrInsufficientStock.WithMessagef("《%s》库存不足,当前库存:%d,需要:%d", b.Title, b.Stock, quantity)
	}

	return nil
}

func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		Stock:       b.Stock,
		Category:    b.Category,
		Description: b.Description,
		Photo:       b.Photo,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:          model.ID,
		Title:       model.Title,
		Author:      model.Author,
		Price:       model.Price,
		Stock:       model.Stock,
		Category:    model.Category,
		Description: model.Description,
		Photo:       model.Photo,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
