package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chiaobuy/liango/internal/engine"
	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/repository"
)

type ProductService struct {
	repo         *repository.ProductRepository
	settingsRepo *repository.SettingsRepository
}

func NewProductService(repo *repository.ProductRepository, settingsRepo *repository.SettingsRepository) *ProductService {
	return &ProductService{repo: repo, settingsRepo: settingsRepo}
}

type CreateProductRequest struct {
	Name     string   `json:"name" binding:"required"`
	Variants []string `json:"variants"`
	PriceJPY int      `json:"price_jpy" binding:"gte=0"`
	PriceTWD int      `json:"price_twd" binding:"gte=0"`
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
}

func (s *ProductService) Create(req CreateProductRequest) (*entity.Product, error) {
	product := &entity.Product{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Variants: req.Variants,
		PriceJPY: req.PriceJPY,
		PriceTWD: req.PriceTWD,
		Category: req.Category,
		Brand:    req.Brand,
	}

	// 没填台币售价时按定价规则带出建议价
	if product.PriceTWD == 0 && product.PriceJPY > 0 {
		settings, err := s.settingsRepo.Load()
		if err != nil {
			return nil, fmt.Errorf("读取全局设置失败: %w", err)
		}
		product.PriceTWD = engine.SuggestPriceTWD(product.PriceJPY, *settings)
	}

	if err := s.repo.Create(product); err != nil {
		return nil, fmt.Errorf("创建商品失败: %w", err)
	}
	return product, nil
}

func (s *ProductService) GetByID(id string) (*entity.Product, error) {
	return s.repo.GetByID(id)
}

func (s *ProductService) List(params repository.ProductListParams) ([]entity.Product, int64, error) {
	return s.repo.List(params)
}

type UpdateProductRequest struct {
	Name     string   `json:"name" binding:"required"`
	Variants []string `json:"variants"`
	PriceJPY int      `json:"price_jpy" binding:"gte=0"`
	PriceTWD int      `json:"price_twd" binding:"gte=0"`
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
}

func (s *ProductService) Update(id string, req UpdateProductRequest) (*entity.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("商品不存在: %w", err)
	}
	product.Name = req.Name
	product.Variants = req.Variants
	product.PriceJPY = req.PriceJPY
	product.PriceTWD = req.PriceTWD
	product.Category = req.Category
	product.Brand = req.Brand
	if err := s.repo.Update(product); err != nil {
		return nil, fmt.Errorf("更新商品失败: %w", err)
	}
	return product, nil
}

func (s *ProductService) Delete(id string) error {
	return s.repo.Delete(id)
}

// SuggestPrice 依日元价回建议台币售价
func (s *ProductService) SuggestPrice(id string) (int, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return 0, fmt.Errorf("商品不存在: %w", err)
	}
	settings, err := s.settingsRepo.Load()
	if err != nil {
		return 0, fmt.Errorf("读取全局设置失败: %w", err)
	}
	return engine.SuggestPriceTWD(product.PriceJPY, *settings), nil
}
