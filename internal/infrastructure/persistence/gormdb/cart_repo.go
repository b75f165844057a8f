package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookapp/internal/domain/cart"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// cartRepository 购物车仓储实现
// 购物车是权威数据源,Redis中的副本只是读缓存
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// AddQuantity 原子upsert
// MySQL: INSERT ... ON DUPLICATE KEY UPDATE quantity = quantity + ?
// SQLite: INSERT ... ON CONFLICT(user_id, book_id) DO UPDATE SET quantity = quantity + ?
func (r *cartRepository) AddQuantity(ctx context.Context, userID, bookID uint, delta int) error {
	now := time.Now()
	model := &CartLineModel{
		UserID:    userID,
		BookID:    bookID,
		Quantity:  delta,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.getDB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": now,
		}),
	}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "加入购物车失败")
	}
	return nil
}

func (r *cartRepository) FindLine(ctx context.Context, userID, bookID uint) (*cart.Line, error) {
	var model CartLineModel
	err := r.getDB(ctx).Where("user_id = ? AND book_id = ?", userID, bookID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrLineNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}
	line := toLine(&model)
	return &line, nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, userID, bookID uint, quantity int) error {
	result := r.getDB(ctx).Model(&CartLineModel{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// Remove 删除单行,行不存在不算错误
func (r *cartRepository) Remove(ctx context.Context, userID, bookID uint) error {
	err := r.getDB(ctx).Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&CartLineModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "移除购物车图书失败")
	}
	return nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]cart.Line, error) {
	var models []CartLineModel
	if err := r.getDB(ctx).Where("user_id = ?", userID).Order("book_id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	lines := make([]cart.Line, len(models))
	for i := range models {
		lines[i] = toLine(&models[i])
	}
	return lines, nil
}

func (r *cartRepository) ClearByUser(ctx context.Context, userID uint) error {
	if err := r.getDB(ctx).Where("user_id = ?", userID).Delete(&CartLineModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

func (r *cartRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func toLine(model *CartLineModel) cart.Line {
	return cart.Line{
		UserID:    model.UserID,
		BookID:    model.BookID,
		Quantity:  model.Quantity,
		UpdatedAt: model.UpdatedAt,
	}
}
