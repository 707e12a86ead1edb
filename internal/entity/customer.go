package entity

import (
	"time"
)

// StockCustomerName 库存占位客户的默认显示名
const StockCustomerName = "庫存"

// Customer 客户（LINE 名称为主要识别键）
// IsStock=true 的客户是库存占位客户：不是真实客户，用来承接被放弃或超买的订单。
// 系统中最多存在一个库存占位客户，启动时自举（见 service.EnsureStockSentinel）。
type Customer struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	LineName      string    `json:"line_name" gorm:"size:200;not null;index"`
	Nickname      string    `json:"nickname" gorm:"size:100"`
	IsBlacklisted bool      `json:"is_blacklisted" gorm:"not null;default:false"`
	IsStock       bool      `json:"is_stock" gorm:"not null;default:false;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
