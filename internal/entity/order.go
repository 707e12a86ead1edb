package entity

import (
	"time"
)

// OrderStatus 订单状态
const (
	OrderStatusPending = "PENDING" // 已下单未买到（或部分买到）
	OrderStatusBought  = "BOUGHT"  // 已买到
	OrderStatusPacked  = "PACKED"  // 已打包
	OrderStatusShipped = "SHIPPED" // 已出货
)

// NotificationStatus 到货通知状态
const (
	NotifyStatusUnnotified = "UNNOTIFIED"
	NotifyStatusNotified   = "NOTIFIED"
)

// Order 客户订单
// OrderedAt 是分配优先级依据：同一商品变体下，下单越早越先被满足。
// QuantityBought 只由分配引擎改写，约定 0 ≤ QuantityBought（不在结构上钳制上限，
// 超买的部分最终会转入库存）。
type Order struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID          string     `json:"product_id" gorm:"type:uuid;not null;index"`
	Variant            string     `json:"variant" gorm:"size:100"`
	CustomerID         string     `json:"customer_id" gorm:"type:uuid;not null;index"`
	Quantity           int        `json:"quantity" gorm:"not null"`
	QuantityBought     int        `json:"quantity_bought" gorm:"not null;default:0"`
	Status             string     `json:"status" gorm:"size:20;not null;default:PENDING"`
	NotificationStatus string     `json:"notification_status" gorm:"size:20;not null;default:UNNOTIFIED"`
	IsArchived         bool       `json:"is_archived" gorm:"not null;default:false;index"`
	SessionID          *string    `json:"session_id" gorm:"type:uuid;index"`
	OrderedAt          time.Time  `json:"ordered_at" gorm:"not null;index"`
	IsPaid             bool       `json:"is_paid" gorm:"not null;default:false"`
	PaymentMethod      string     `json:"payment_method" gorm:"size:50"`
	PaymentNote        string     `json:"payment_note" gorm:"size:200"` // 例如汇款后五码
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Product  *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

func (Order) TableName() string {
	return "orders"
}

// IsFullyBought 是否已全数买到
func (o *Order) IsFullyBought() bool {
	return o.QuantityBought >= o.Quantity
}
