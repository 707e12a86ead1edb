package entity

import (
	"time"
)

// SettingsID 全局设置固定主键（单行表，显式 load/save）
const SettingsID = "global"

// PricingRule 日元价格区间定价规则（闭区间，先匹配先赢）
type PricingRule struct {
	MinPrice   int     `json:"min_price"`
	MaxPrice   int     `json:"max_price"`
	Multiplier float64 `json:"multiplier"`
}

// Settings 全局设置
// 引擎函数不读取任何全局状态，设置总是作为参数显式传入。
type Settings struct {
	ID                     string        `json:"id" gorm:"primaryKey;size:20"`
	JPYExchangeRate        float64       `json:"jpy_exchange_rate" gorm:"not null;default:0.22"`
	PricingRules           []PricingRule `json:"pricing_rules" gorm:"serializer:json"`
	ShippingFee            int           `json:"shipping_fee" gorm:"not null;default:0"`
	FreeShippingThreshold  int           `json:"free_shipping_threshold" gorm:"not null;default:0"`
	PickupPayment          int           `json:"pickup_payment" gorm:"not null;default:0"`
	ProductCategories      []string      `json:"product_categories" gorm:"serializer:json"`
	BillingMessageTemplate string        `json:"billing_message_template" gorm:"type:text"`
	UpdatedAt              time.Time     `json:"updated_at"`
}

func (Settings) TableName() string {
	return "settings"
}

// DefaultBillingMessageTemplate 预设对账讯息模板
const DefaultBillingMessageTemplate = `{{name}} 您好，{{sessionName}}已到貨 ({{date}})
{{items}}
小計 ${{subtotal}}
運費 ${{shipping}} {{freeShippingNote}}
面交折抵 -${{pickupPayment}}
應付金額 ${{remittance}}`

// DefaultSettings 自举用预设值
func DefaultSettings() *Settings {
	return &Settings{
		ID:              SettingsID,
		JPYExchangeRate: 0.22,
		PricingRules: []PricingRule{
			{MinPrice: 0, MaxPrice: 500, Multiplier: 0.35},
			{MinPrice: 501, MaxPrice: 2000, Multiplier: 0.30},
			{MinPrice: 2001, MaxPrice: 1000000, Multiplier: 0.28},
		},
		ShippingFee:            38,
		FreeShippingThreshold:  3000,
		PickupPayment:          0,
		ProductCategories:      []string{"藥妝", "零食", "服飾", "雜貨"},
		BillingMessageTemplate: DefaultBillingMessageTemplate,
	}
}
