package service

import (
	"fmt"

	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/repository"
)

type SettingsService struct {
	repo *repository.SettingsRepository
}

func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get() (*entity.Settings, error) {
	return s.repo.Load()
}

type UpdateSettingsRequest struct {
	JPYExchangeRate        float64              `json:"jpy_exchange_rate" binding:"gte=0"`
	PricingRules           []entity.PricingRule `json:"pricing_rules"`
	ShippingFee            int                  `json:"shipping_fee" binding:"gte=0"`
	FreeShippingThreshold  int                  `json:"free_shipping_threshold" binding:"gte=0"`
	PickupPayment          int                  `json:"pickup_payment" binding:"gte=0"`
	ProductCategories      []string             `json:"product_categories"`
	BillingMessageTemplate string               `json:"billing_message_template"`
}

func (s *SettingsService) Update(req UpdateSettingsRequest) (*entity.Settings, error) {
	settings, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("读取全局设置失败: %w", err)
	}
	settings.JPYExchangeRate = req.JPYExchangeRate
	settings.PricingRules = req.PricingRules
	settings.ShippingFee = req.ShippingFee
	settings.FreeShippingThreshold = req.FreeShippingThreshold
	settings.PickupPayment = req.PickupPayment
	settings.ProductCategories = req.ProductCategories
	settings.BillingMessageTemplate = req.BillingMessageTemplate
	if err := s.repo.Save(settings); err != nil {
		return nil, fmt.Errorf("保存全局设置失败: %w", err)
	}
	return settings, nil
}
