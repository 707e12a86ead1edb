package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/repository"
)

type OrderService struct {
	repo         *repository.OrderRepository
	productRepo  *repository.ProductRepository
	customerRepo *repository.CustomerRepository
	logger       *zap.Logger
}

func NewOrderService(repo *repository.OrderRepository, productRepo *repository.ProductRepository, customerRepo *repository.CustomerRepository, logger *zap.Logger) *OrderService {
	return &OrderService{repo: repo, productRepo: productRepo, customerRepo: customerRepo, logger: logger}
}

type CreateOrderRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	Variant    string `json:"variant"`
	CustomerID string `json:"customer_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gte=1"`
}

func (s *OrderService) Create(req CreateOrderRequest) (*entity.Order, error) {
	product, err := s.productRepo.GetByID(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("商品不存在: %w", err)
	}
	customer, err := s.customerRepo.GetByID(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("客户不存在: %w", err)
	}
	if customer.IsBlacklisted {
		return nil, fmt.Errorf("黑名单客户不能下单: %s", customer.LineName)
	}

	// 变体与商品不符是数据品质问题，由前端挡；这里只留痕不拒单
	if len(product.Variants) > 0 && req.Variant != "" && !product.HasVariant(req.Variant) {
		s.logger.Warn("订单变体不在商品变体列表中",
			zap.String("product_id", product.ID),
			zap.String("variant", req.Variant))
	}

	order := &entity.Order{
		ID:                 uuid.New().String(),
		ProductID:          req.ProductID,
		Variant:            req.Variant,
		CustomerID:         req.CustomerID,
		Quantity:           req.Quantity,
		Status:             entity.OrderStatusPending,
		NotificationStatus: entity.NotifyStatusUnnotified,
		OrderedAt:          time.Now(),
	}
	if err := s.repo.Create(order); err != nil {
		return nil, fmt.Errorf("创建订单失败: %w", err)
	}
	return order, nil
}

func (s *OrderService) GetByID(id string) (*entity.Order, error) {
	return s.repo.GetByID(id)
}

func (s *OrderService) List(params repository.OrderListParams) ([]entity.Order, int64, error) {
	return s.repo.List(params)
}

type UpdateOrderRequest struct {
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity" binding:"required,gte=1"`
	Status   string `json:"status" binding:"omitempty,oneof=PENDING BOUGHT PACKED SHIPPED"`
}

func (s *OrderService) Update(id string, req UpdateOrderRequest) (*entity.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("订单不存在: %w", err)
	}
	order.Variant = req.Variant
	order.Quantity = req.Quantity
	if req.Status != "" {
		order.Status = req.Status
	}
	if err := s.repo.Update(order); err != nil {
		return nil, fmt.Errorf("更新订单失败: %w", err)
	}
	return order, nil
}

func (s *OrderService) Delete(id string) error {
	return s.repo.Delete(id)
}

type PayOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	PaymentNote   string `json:"payment_note"`
}

// Pay 登记收款（例如转账后五码）
func (s *OrderService) Pay(id string, req PayOrderRequest) (*entity.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("订单不存在: %w", err)
	}
	order.IsPaid = true
	order.PaymentMethod = req.PaymentMethod
	order.PaymentNote = req.PaymentNote
	if err := s.repo.Update(order); err != nil {
		return nil, fmt.Errorf("登记收款失败: %w", err)
	}
	return order, nil
}

// MarkNotified 标记已发送到货通知
func (s *OrderService) MarkNotified(id string) (*entity.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("订单不存在: %w", err)
	}
	order.NotificationStatus = entity.NotifyStatusNotified
	if err := s.repo.Update(order); err != nil {
		return nil, fmt.Errorf("更新通知状态失败: %w", err)
	}
	return order, nil
}
