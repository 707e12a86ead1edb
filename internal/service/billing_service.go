package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chiaobuy/liango/internal/engine"
	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/repository"
)

// BillingService 对账：从活跃订单派生每位客户的应收，并渲染对账讯息
type BillingService struct {
	orderRepo    *repository.OrderRepository
	productRepo  *repository.ProductRepository
	customerRepo *repository.CustomerRepository
	settingsRepo *repository.SettingsRepository
	logger       *zap.Logger
}

func NewBillingService(orderRepo *repository.OrderRepository, productRepo *repository.ProductRepository, customerRepo *repository.CustomerRepository, settingsRepo *repository.SettingsRepository, logger *zap.Logger) *BillingService {
	return &BillingService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// ListBills 全部客户的对账单，未付清的排前面。
// 每次读都从订单重算，不落任何派生状态。
func (s *BillingService) ListBills() ([]*engine.Bill, error) {
	customers, err := s.customerRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("读取客户失败: %w", err)
	}
	products, err := s.productRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("读取商品失败: %w", err)
	}
	orders, err := s.orderRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("读取订单失败: %w", err)
	}
	settings, err := s.settingsRepo.Load()
	if err != nil {
		return nil, fmt.Errorf("读取全局设置失败: %w", err)
	}

	ordersByCustomer := make(map[string][]entity.Order)
	for _, o := range orders {
		ordersByCustomer[o.CustomerID] = append(ordersByCustomer[o.CustomerID], o)
	}

	var bills []*engine.Bill
	for _, c := range customers {
		if c.IsStock {
			continue // 库存不是应收对象
		}
		bill := engine.BuildBill(c, ordersByCustomer[c.ID], products, *settings)
		if bill == nil {
			continue
		}
		if bill.SkippedLines > 0 {
			s.logger.Warn("对账单有订单引用已删除商品，已跳过",
				zap.String("customer_id", c.ID),
				zap.Int("skipped_lines", bill.SkippedLines))
		}
		bills = append(bills, bill)
	}
	engine.SortBills(bills)
	return bills, nil
}

// GetBill 单一客户的对账单；没有可计费订单时返回 nil
func (s *BillingService) GetBill(customerID string) (*engine.Bill, error) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, fmt.Errorf("客户不存在: %w", err)
	}
	products, err := s.productRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("读取商品失败: %w", err)
	}
	orders, err := s.orderRepo.ListActiveByCustomer(customerID)
	if err != nil {
		return nil, fmt.Errorf("读取订单失败: %w", err)
	}
	settings, err := s.settingsRepo.Load()
	if err != nil {
		return nil, fmt.Errorf("读取全局设置失败: %w", err)
	}

	bill := engine.BuildBill(*customer, orders, products, *settings)
	if bill != nil && bill.SkippedLines > 0 {
		s.logger.Warn("对账单有订单引用已删除商品，已跳过",
			zap.String("customer_id", customerID),
			zap.Int("skipped_lines", bill.SkippedLines))
	}
	return bill, nil
}

// RenderMessage 渲染客户的对账通知讯息；引擎只负责产出字串，
// 发送（复制/分享）由前端处理
func (s *BillingService) RenderMessage(customerID, sessionName string) (string, error) {
	bill, err := s.GetBill(customerID)
	if err != nil {
		return "", err
	}
	if bill == nil {
		return "", fmt.Errorf("该客户目前没有可对账的订单")
	}
	settings, err := s.settingsRepo.Load()
	if err != nil {
		return "", fmt.Errorf("读取全局设置失败: %w", err)
	}
	template := settings.BillingMessageTemplate
	if template == "" {
		template = entity.DefaultBillingMessageTemplate
	}
	ctx := engine.MessageContext{
		Date:        time.Now().Format("2006-01-02"),
		SessionName: sessionName,
	}
	return engine.RenderMessage(bill, template, ctx), nil
}
