package repository

import (
	"github.com/chiaobuy/liango/internal/entity"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(c *entity.Customer) error {
	return r.db.Create(c).Error
}

func (r *CustomerRepository) GetByID(id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *CustomerRepository) GetByLineName(lineName string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.Where("line_name = ?", lineName).First(&c).Error
	return &c, err
}

func (r *CustomerRepository) Update(c *entity.Customer) error {
	return r.db.Save(c).Error
}

func (r *CustomerRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.Customer{}).Error
}

func (r *CustomerRepository) ListAll() ([]entity.Customer, error) {
	var customers []entity.Customer
	err := r.db.Order("created_at ASC").Find(&customers).Error
	return customers, err
}

// GetStockSentinel 取库存占位客户；不存在时返回 gorm.ErrRecordNotFound
func (r *CustomerRepository) GetStockSentinel() (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.Where("is_stock = ?", true).First(&c).Error
	return &c, err
}

// CountStockSentinels 自举校验用：正常情况下恰好为 1
func (r *CustomerRepository) CountStockSentinels() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Customer{}).Where("is_stock = ?", true).Count(&count).Error
	return count, err
}

type CustomerListParams struct {
	Keyword     string
	Blacklisted *bool
	Page        int
	Size        int
}

func (r *CustomerRepository) List(params CustomerListParams) ([]entity.Customer, int64, error) {
	query := r.db.Model(&entity.Customer{})
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("line_name ILIKE ? OR nickname ILIKE ?", kw, kw)
	}
	if params.Blacklisted != nil {
		query = query.Where("is_blacklisted = ?", *params.Blacklisted)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var customers []entity.Customer
	err := query.Order("created_at DESC").Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&customers).Error
	return customers, total, err
}
