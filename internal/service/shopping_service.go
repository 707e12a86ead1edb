package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/chiaobuy/liango/internal/engine"
	"github.com/chiaobuy/liango/internal/repository"
)

// ShoppingService 采购清单：汇总当前需求、把"实际买到多少"回写到各张订单
type ShoppingService struct {
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
	rdb         *redis.Client
	db          *gorm.DB
}

func NewShoppingService(orderRepo *repository.OrderRepository, productRepo *repository.ProductRepository, rdb *redis.Client, db *gorm.DB) *ShoppingService {
	return &ShoppingService{orderRepo: orderRepo, productRepo: productRepo, rdb: rdb, db: db}
}

const groupLockTTL = 10 * time.Second

// lockGroup 同一（商品，变体）分组的分配互斥锁。
// 分配会读整组再改写每一张订单，两个并发回报互相覆盖会弄坏瀑布；
// 不同分组相互独立，不需要全局锁。
func (s *ShoppingService) lockGroup(ctx context.Context, productID, variant string) (func(), error) {
	key := fmt.Sprintf("liango:alloc:%s:%s", productID, variant)
	ok, err := s.rdb.SetNX(ctx, key, "1", groupLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("取得分配锁失败: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("该商品变体正在分配中，请稍后重试")
	}
	return func() { s.rdb.Del(ctx, key) }, nil
}

// GetShoppingList 当前連線的采购清单（纯派生视图，每次读都重算，不缓存）
func (s *ShoppingService) GetShoppingList() ([]engine.Group, error) {
	products, err := s.productRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("读取商品失败: %w", err)
	}
	orders, err := s.orderRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("读取订单失败: %w", err)
	}
	return engine.GroupOrders(products, orders), nil
}

type ReallocateRequest struct {
	ProductID      string `json:"product_id" binding:"required"`
	Variant        string `json:"variant"`
	NewTotalBought int    `json:"new_total_bought" binding:"gte=0"`
}

// Reallocate 以新的"实际买到总量"重算整组分配，并把结果整批落库
func (s *ShoppingService) Reallocate(ctx context.Context, req ReallocateRequest) ([]engine.OrderUpdate, error) {
	variant := engine.NormalizeVariant(req.Variant)
	unlock, err := s.lockGroup(ctx, req.ProductID, variant)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updates []engine.OrderUpdate
	err = s.db.Transaction(func(tx *gorm.DB) error {
		orders, err := s.orderRepo.ListActiveGroupForUpdate(tx, req.ProductID, variant)
		if err != nil {
			return fmt.Errorf("读取分组订单失败: %w", err)
		}
		group := engine.Group{ProductID: req.ProductID, Variant: variant, Orders: orders}
		for _, o := range orders {
			group.TotalNeeded += o.Quantity
			group.TotalBought += o.QuantityBought
		}
		updates = engine.Reallocate(group, req.NewTotalBought)
		return s.orderRepo.ApplyAllocations(tx, updates)
	})
	if err != nil {
		return nil, err
	}
	return updates, nil
}

type IncrementRequest struct {
	ProductID     string `json:"product_id" binding:"required"`
	Variant       string `json:"variant"`
	AddedQuantity int    `json:"added_quantity" binding:"required,gt=0"`
}

// Increment "又买到 N 个"：在现有已买量上追加再分配，并回报哪些订单因此刚被满足
func (s *ShoppingService) Increment(ctx context.Context, req IncrementRequest) (*engine.IncrementResult, error) {
	variant := engine.NormalizeVariant(req.Variant)
	unlock, err := s.lockGroup(ctx, req.ProductID, variant)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result engine.IncrementResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		orders, err := s.orderRepo.ListActiveGroupForUpdate(tx, req.ProductID, variant)
		if err != nil {
			return fmt.Errorf("读取分组订单失败: %w", err)
		}
		group := engine.Group{ProductID: req.ProductID, Variant: variant, Orders: orders}
		for _, o := range orders {
			group.TotalNeeded += o.Quantity
			group.TotalBought += o.QuantityBought
		}
		result = engine.AllocateIncrement(group, req.AddedQuantity)
		return s.orderRepo.ApplyAllocations(tx, result.Updates)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
