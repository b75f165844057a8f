package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status 订单状态
// 教学要点:
// 1. 使用int存储(便于索引),对外使用字符串名称
// 2. 状态值1-4递增,只能向前一步流转:
//    Pending → To Ship → To Receive → Delivered
type Status int

const (
	StatusPending   Status = 1 // 待发货处理
	StatusToShip    Status = 2 // 待发货
	StatusToReceive Status = 3 // 待收货
	StatusDelivered Status = 4 // 已送达(终态)
)

var statusNames = map[Status]string{
	StatusPending:   "Pending",
	StatusToShip:    "To Ship",
	StatusToReceive: "To Receive",
	StatusDelivered: "Delivered",
}

// String 实现Stringer接口,同时是API中的状态名称
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Valid 是否为已定义的状态
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Next 下一个合法状态,终态返回false
func (s Status) Next() (Status, bool) {
	if !s.Valid() || s == StatusDelivered {
		return 0, false
	}
	return s + 1, true
}

// ParseStatus 解析状态名称(忽略大小写与首尾空白)
func ParseStatus(name string) (Status, error) {
	name = strings.TrimSpace(name)
	for s, n := range statusNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, ErrInvalidStatus.WithMessagef("未知的订单状态: %q", name)
}

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentCreditCard     PaymentMethod = "Credit Card"
	PaymentPayPal         PaymentMethod = "PayPal"
)

// ParsePaymentMethod 解析支付方式(忽略大小写)
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	for _, pm := range []PaymentMethod{PaymentCashOnDelivery, PaymentCreditCard, PaymentPayPal} {
		if strings.EqualFold(string(pm), s) {
			return pm, nil
		}
	}
	return "", ErrInvalidPaymentMethod.WithMessagef("不支持的支付方式: %q", s)
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. ID为UUID,由NewID生成
// 2. TotalPrice在下单时计算并冻结,之后图书改价/删除都不会重新计算
// 3. 订单永不删除(审计记录)
type Order struct {
	ID            string
	UserID        uint
	Items         []OrderItem
	TotalPrice    int64 // 订单总金额(分)
	PaymentMethod PaymentMethod
	Status        Status
	CreatedAt     time.Time // 下单时间
	UpdatedAt     time.Time
}

// OrderItem 订单明细快照
// 只保存图书ID与数量,不引用可变的Book;价格已折算进TotalPrice
type OrderItem struct {
	BookID   uint
	Quantity int
}

// NewID 生成订单ID
func NewID() string {
	return uuid.NewString()
}

// NewOrder 创建新订单(工厂方法),初始状态为Pending
func NewOrder(id string, userID uint, items []OrderItem, total int64, pm PaymentMethod) *Order {
	now := time.Now()
	return &Order{
		ID:            id,
		UserID:        userID,
		Items:         items,
		TotalPrice:    total,
		PaymentMethod: pm,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanTransitionTo 只允许流转到紧邻的下一个状态
func (o *Order) CanTransitionTo(target Status) bool {
	next, ok := o.Status.Next()
	return ok && next == target
}

// TransitionTo 状态转换
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidTransition.WithMessagef("订单状态不能从%s变更为%s", o.Status, target)
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}
