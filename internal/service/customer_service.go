package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/repository"
)

type CustomerService struct {
	repo   *repository.CustomerRepository
	logger *zap.Logger
}

func NewCustomerService(repo *repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{repo: repo, logger: logger}
}

// EnsureStockSentinel 启动自举：没有库存占位客户就建一个，出现多个视为数据损坏。
// 只允许在自举阶段创建，生命周期转换中缺失占位客户一律报错（见 SessionService）。
func (s *CustomerService) EnsureStockSentinel() (*entity.Customer, error) {
	count, err := s.repo.CountStockSentinels()
	if err != nil {
		return nil, fmt.Errorf("检查库存占位客户失败: %w", err)
	}
	if count > 1 {
		return nil, fmt.Errorf("库存占位客户重复（%d 个），请先人工修复数据", count)
	}
	if count == 1 {
		return s.repo.GetStockSentinel()
	}

	sentinel := &entity.Customer{
		ID:       uuid.New().String(),
		LineName: entity.StockCustomerName,
		IsStock:  true,
	}
	if err := s.repo.Create(sentinel); err != nil {
		return nil, fmt.Errorf("创建库存占位客户失败: %w", err)
	}
	s.logger.Info("已建立库存占位客户", zap.String("customer_id", sentinel.ID))
	return sentinel, nil
}

type CreateCustomerRequest struct {
	LineName string `json:"line_name" binding:"required"`
	Nickname string `json:"nickname"`
}

func (s *CustomerService) Create(req CreateCustomerRequest) (*entity.Customer, error) {
	// LINE 名称是识别键，避免同名重复建档
	if existing, err := s.repo.GetByLineName(req.LineName); err == nil && existing != nil {
		return nil, fmt.Errorf("客户已存在: %s", req.LineName)
	}

	customer := &entity.Customer{
		ID:       uuid.New().String(),
		LineName: req.LineName,
		Nickname: req.Nickname,
	}
	if err := s.repo.Create(customer); err != nil {
		return nil, fmt.Errorf("创建客户失败: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) GetByID(id string) (*entity.Customer, error) {
	return s.repo.GetByID(id)
}

func (s *CustomerService) List(params repository.CustomerListParams) ([]entity.Customer, int64, error) {
	return s.repo.List(params)
}

type UpdateCustomerRequest struct {
	LineName      string `json:"line_name" binding:"required"`
	Nickname      string `json:"nickname"`
	IsBlacklisted bool   `json:"is_blacklisted"`
}

func (s *CustomerService) Update(id string, req UpdateCustomerRequest) (*entity.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("客户不存在: %w", err)
	}
	customer.LineName = req.LineName
	customer.Nickname = req.Nickname
	customer.IsBlacklisted = req.IsBlacklisted
	if err := s.repo.Update(customer); err != nil {
		return nil, fmt.Errorf("更新客户失败: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) Delete(id string) error {
	customer, err := s.repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("客户不存在")
	}
	if err != nil {
		return err
	}
	if customer.IsStock {
		return fmt.Errorf("库存占位客户不能删除")
	}
	return s.repo.Delete(id)
}
