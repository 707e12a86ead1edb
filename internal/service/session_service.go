package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/repository"
)

// SessionService 連線生命周期：结束归档、弃单转库存、库存转售
type SessionService struct {
	sessionRepo  *repository.SessionRepository
	orderRepo    *repository.OrderRepository
	customerRepo *repository.CustomerRepository
	db           *gorm.DB
	logger       *zap.Logger
}

func NewSessionService(sessionRepo *repository.SessionRepository, orderRepo *repository.OrderRepository, customerRepo *repository.CustomerRepository, db *gorm.DB, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		db:           db,
		logger:       logger,
	}
}

type ArchiveSessionRequest struct {
	Name string `json:"name" binding:"required"`
}

// Archive 结束本次連線：归档所有活跃订单，但库存占位客户的订单不动——
// 库存是跨連線的资源池。单一事务，整批成败。
func (s *SessionService) Archive(req ArchiveSessionRequest) (*entity.Session, error) {
	sentinel, err := s.customerRepo.GetStockSentinel()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("库存占位客户不存在，无法归档")
	}
	if err != nil {
		return nil, fmt.Errorf("读取库存占位客户失败: %w", err)
	}

	session := &entity.Session{
		ID:         uuid.New().String(),
		Name:       req.Name,
		ArchivedAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("建立連線记录失败: %w", err)
		}
		result := tx.Model(&entity.Order{}).
			Where("is_archived = ? AND customer_id <> ?", false, sentinel.ID).
			Updates(map[string]interface{}{
				"is_archived": true,
				"session_id":  session.ID,
			})
		if result.Error != nil {
			return fmt.Errorf("归档订单失败: %w", result.Error)
		}
		session.OrderCount = int(result.RowsAffected)
		return tx.Model(session).Update("order_count", session.OrderCount).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("連線已归档",
		zap.String("session_id", session.ID),
		zap.String("name", session.Name),
		zap.Int("order_count", session.OrderCount))
	return session, nil
}

func (s *SessionService) List(page, size int) ([]entity.Session, int64, error) {
	return s.sessionRepo.List(page, size)
}

// AbandonToStock 把订单转给库存占位客户：货已买到只是没了买家。
// 客户关系变了，先前的通知与收款脉络一并作废。
// 占位客户缺失时中止并报错，绝不在转换中途擅自补建。
func (s *SessionService) AbandonToStock(orderID string) (*entity.Order, error) {
	sentinel, err := s.customerRepo.GetStockSentinel()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("库存占位客户不存在，无法转入库存")
	}
	if err != nil {
		return nil, fmt.Errorf("读取库存占位客户失败: %w", err)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("订单不存在: %w", err)
	}
	if order.IsArchived {
		return nil, fmt.Errorf("已归档订单不能转入库存")
	}

	abandonOrder(order, sentinel.ID)
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("转入库存失败: %w", err)
	}
	return order, nil
}

// AbandonAllByCustomer 把客户的全部活跃订单整批转入库存，单一事务
func (s *SessionService) AbandonAllByCustomer(customerID string) (int, error) {
	sentinel, err := s.customerRepo.GetStockSentinel()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("库存占位客户不存在，无法转入库存")
	}
	if err != nil {
		return 0, fmt.Errorf("读取库存占位客户失败: %w", err)
	}
	if customerID == sentinel.ID {
		return 0, fmt.Errorf("库存订单不需要再转入库存")
	}

	orders, err := s.orderRepo.ListActiveByCustomer(customerID)
	if err != nil {
		return 0, fmt.Errorf("读取客户订单失败: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			abandonOrder(&orders[i], sentinel.ID)
			if err := tx.Save(&orders[i]).Error; err != nil {
				return fmt.Errorf("转入库存失败: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(orders), nil
}

// abandonOrder 弃单转库存的字段变换；整张订单作为一个单位移动，不拆量
func abandonOrder(order *entity.Order, sentinelID string) {
	order.CustomerID = sentinelID
	order.Status = entity.OrderStatusBought
	order.NotificationStatus = entity.NotifyStatusUnnotified
	order.IsPaid = false
	order.PaymentMethod = ""
	order.PaymentNote = ""
}

type ReassignRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}

// ReassignFromStock 库存转售：整张库存订单转给真实客户。
// 需要拆量时由操作者先另建一张库存订单承接余量（前端流程，引擎不管）。
func (s *SessionService) ReassignFromStock(orderID string, req ReassignRequest) (*entity.Order, error) {
	sentinel, err := s.customerRepo.GetStockSentinel()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("库存占位客户不存在")
	}
	if err != nil {
		return nil, fmt.Errorf("读取库存占位客户失败: %w", err)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("订单不存在: %w", err)
	}
	if order.CustomerID != sentinel.ID {
		return nil, fmt.Errorf("该订单不在库存中")
	}

	target, err := s.customerRepo.GetByID(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("目标客户不存在: %w", err)
	}
	if target.IsStock {
		return nil, fmt.Errorf("目标客户不能是库存占位客户")
	}

	order.CustomerID = target.ID
	order.Status = entity.OrderStatusBought
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("库存转售失败: %w", err)
	}
	return order, nil
}
