package engine

import (
	"math"

	"github.com/chiaobuy/liango/internal/entity"
)

// SuggestPriceTWD 依日元价格区间规则建议台币售价。
// 闭区间先匹配先赢；没有命中任何区间时退回汇率换算。
func SuggestPriceTWD(priceJPY int, settings entity.Settings) int {
	for _, rule := range settings.PricingRules {
		if priceJPY >= rule.MinPrice && priceJPY <= rule.MaxPrice {
			return int(math.Round(float64(priceJPY) * rule.Multiplier))
		}
	}
	return int(math.Round(float64(priceJPY) * settings.JPYExchangeRate))
}
