package entity

import (
	"time"
)

// Product 連線商品
// Variants 为空表示单一规格（无尺寸/颜色之分）
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Variants  []string  `json:"variants" gorm:"serializer:json"`
	PriceJPY  int       `json:"price_jpy" gorm:"not null;default:0"`
	PriceTWD  int       `json:"price_twd" gorm:"not null;default:0"`
	Category  string    `json:"category" gorm:"size:50;index"`
	Brand     string    `json:"brand" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// HasVariant 判断变体是否属于该商品
func (p *Product) HasVariant(variant string) bool {
	for _, v := range p.Variants {
		if v == variant {
			return true
		}
	}
	return false
}
