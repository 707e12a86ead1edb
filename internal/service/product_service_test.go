package service

import (
	"testing"

	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/repository"
	"github.com/chiaobuy/liango/internal/testutil"
)

func seedPricingSettings(t *testing.T, repos *repository.Repositories) {
	t.Helper()
	settings := entity.DefaultSettings()
	settings.JPYExchangeRate = 0.25
	settings.PricingRules = []entity.PricingRule{
		{MinPrice: 0, MaxPrice: 1000, Multiplier: 0.3},
		{MinPrice: 1001, MaxPrice: 5000, Multiplier: 0.28},
	}
	if err := repos.Settings.Save(settings); err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}
}

func TestCreateProductAutoSuggestsPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewProductService(repos.Product, repos.Settings)
	seedPricingSettings(t, repos)

	// 只填日元价：按区间规则 800 × 0.3 = 240
	product, err := svc.Create(CreateProductRequest{Name: "EVE止痛藥", PriceJPY: 800})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if product.PriceTWD != 240 {
		t.Errorf("Expected suggested price 240, got %d", product.PriceTWD)
	}

	// 明确给定台币价时不覆盖
	product2, err := svc.Create(CreateProductRequest{Name: "面膜", PriceJPY: 800, PriceTWD: 199})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if product2.PriceTWD != 199 {
		t.Errorf("Explicit price must win, got %d", product2.PriceTWD)
	}
}

func TestSuggestPriceFallsBackToExchangeRate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewProductService(repos.Product, repos.Settings)
	seedPricingSettings(t, repos)

	// 10000 不落在任何区间，回退汇率 0.25
	product, err := svc.Create(CreateProductRequest{Name: "高價精華", PriceJPY: 10000})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if product.PriceTWD != 2500 {
		t.Errorf("Expected fallback price 2500, got %d", product.PriceTWD)
	}

	price, err := svc.SuggestPrice(product.ID)
	if err != nil {
		t.Fatalf("SuggestPrice failed: %v", err)
	}
	if price != 2500 {
		t.Errorf("Expected 2500, got %d", price)
	}
}
