package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookapp/internal/domain/order"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// orderRepository 订单仓储实现
// 1. Order和OrderItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单(包含订单明细),必须在下单事务中调用
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var model OrderModel
	if err := r.withItems(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// LockByID 悲观锁查询订单,状态流转在同一事务中完成
func (r *orderRepository) LockByID(ctx context.Context, id string) (*order.Order, error) {
	var model OrderModel
	err := r.withItems(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "锁定订单失败")
	}
	return toOrderEntity(&model), nil
}

// Update 更新订单状态,不更新Items
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	result := r.getDB(ctx).Model(&OrderModel{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"status":     int(o.Status),
		"updated_at": o.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	var models []OrderModel
	err := r.withItems(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询订单列表失败")
	}
	return toOrderEntities(models), nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*order.Order, error) {
	var models []OrderModel
	if err := r.withItems(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询订单列表失败")
	}
	return toOrderEntities(models), nil
}

// FindDeliveredPurchase 用户最近一个包含该图书且已送达的订单
// SELECT * FROM orders WHERE user_id = ? AND status = 4
//
//	AND id IN (SELECT order_id FROM order_items WHERE book_id = ?)
//	ORDER BY created_at DESC LIMIT 1
func (r *orderRepository) FindDeliveredPurchase(ctx context.Context, userID, bookID uint) (*order.Order, error) {
	sub := r.getDB(ctx).Model(&OrderItemModel{}).Select("order_id").Where("book_id = ?", bookID)

	var model OrderModel
	err := r.withItems(ctx).
		Where("user_id = ? AND status = ? AND id IN (?)", userID, int(order.StatusDelivered), sub).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrPurchaseNotFound
		}
		return nil, apperrors.Wrap(err, "查询购买记录失败")
	}
	return toOrderEntity(&model), nil
}

// withItems 预加载明细,明细按图书ID升序
func (r *orderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.getDB(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("book_id ASC")
	})
}

func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			OrderID:  o.ID,
			BookID:   item.BookID,
			Quantity: item.Quantity,
		}
	}

	return &OrderModel{
		ID:            o.ID,
		UserID:        o.UserID,
		TotalPrice:    o.TotalPrice,
		PaymentMethod: string(o.PaymentMethod),
		Status:        int(o.Status),
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = order.OrderItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		}
	}

	return &order.Order{
		ID:            model.ID,
		UserID:        model.UserID,
		Items:         items,
		TotalPrice:    model.TotalPrice,
		PaymentMethod: order.PaymentMethod(model.PaymentMethod),
		Status:        order.Status(model.Status),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toOrderEntities(models []OrderModel) []*order.Order {
	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders
}
