package repository

import (
	"github.com/chiaobuy/liango/internal/engine"
	"github.com/chiaobuy/liango/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *entity.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id string) (*entity.Order, error) {
	var o entity.Order
	err := r.db.Preload("Product").Preload("Customer").Where("id = ?", id).First(&o).Error
	return &o, err
}

func (r *OrderRepository) Update(o *entity.Order) error {
	return r.db.Save(o).Error
}

func (r *OrderRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.Order{}).Error
}

// ListActive 当前連線的全部未归档订单（汇总、对账的输入）
func (r *OrderRepository) ListActive() ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.Where("is_archived = ?", false).Order("ordered_at ASC, id ASC").Find(&orders).Error
	return orders, err
}

// ListActiveByCustomer 客户的活跃订单，保持下单顺序（对账明细顺序依赖它）
func (r *OrderRepository) ListActiveByCustomer(customerID string) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.Where("customer_id = ? AND is_archived = ?", customerID, false).
		Order("ordered_at ASC, id ASC").Find(&orders).Error
	return orders, err
}

// ListActiveGroupForUpdate 在事务里锁住同一（商品，变体）分组的全部订单行。
// 分配算法会读取整组已买量再改写每一张订单，不上锁的话两个并发的
// "又买到 N 个" 会互相覆盖。
func (r *OrderRepository) ListActiveGroupForUpdate(tx *gorm.DB, productID, variant string) ([]entity.Order, error) {
	query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND is_archived = ?", productID, false)
	if variant == engine.DefaultVariant {
		query = query.Where("variant = ''")
	} else {
		query = query.Where("variant = ?", variant)
	}
	var orders []entity.Order
	err := query.Order("ordered_at ASC, id ASC").Find(&orders).Error
	return orders, err
}

// ApplyAllocations 把一次分配的整批结果写回；必须与读取同一事务，整批成败
func (r *OrderRepository) ApplyAllocations(tx *gorm.DB, updates []engine.OrderUpdate) error {
	for _, u := range updates {
		if err := tx.Model(&entity.Order{}).Where("id = ?", u.OrderID).
			Updates(map[string]interface{}{
				"quantity_bought": u.QuantityBought,
				"status":          u.Status,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

type OrderListParams struct {
	ProductID  string
	CustomerID string
	Status     string
	SessionID  string
	Archived   *bool
	Page       int
	Size       int
}

func (r *OrderRepository) List(params OrderListParams) ([]entity.Order, int64, error) {
	query := r.db.Model(&entity.Order{})
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.SessionID != "" {
		query = query.Where("session_id = ?", params.SessionID)
	}
	if params.Archived != nil {
		query = query.Where("is_archived = ?", *params.Archived)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.Order
	err := query.Preload("Product").Preload("Customer").
		Order("ordered_at DESC").Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&orders).Error
	return orders, total, err
}
