package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chiaobuy/liango/internal/entity"
)

func TestSuggestPriceTWD(t *testing.T) {
	s := entity.Settings{
		JPYExchangeRate: 0.22,
		PricingRules: []entity.PricingRule{
			{MinPrice: 0, MaxPrice: 500, Multiplier: 0.35},
			{MinPrice: 501, MaxPrice: 2000, Multiplier: 0.30},
		},
	}

	assert.Equal(t, 175, SuggestPriceTWD(500, s))  // 闭区间上界命中第一条
	assert.Equal(t, 150, SuggestPriceTWD(501, s))  // 第二条
	assert.Equal(t, 660, SuggestPriceTWD(3000, s)) // 无命中退回汇率
}

func TestSuggestPriceTWDFirstMatchWins(t *testing.T) {
	s := entity.Settings{
		PricingRules: []entity.PricingRule{
			{MinPrice: 0, MaxPrice: 1000, Multiplier: 0.5},
			{MinPrice: 0, MaxPrice: 1000, Multiplier: 0.9},
		},
	}
	assert.Equal(t, 100, SuggestPriceTWD(200, s))
}
