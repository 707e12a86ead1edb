package repository

import "gorm.io/gorm"

// Repositories 仓库集合
type Repositories struct {
	Product  *ProductRepository
	Customer *CustomerRepository
	Order    *OrderRepository
	Session  *SessionRepository
	Settings *SettingsRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:  NewProductRepository(db),
		Customer: NewCustomerRepository(db),
		Order:    NewOrderRepository(db),
		Session:  NewSessionRepository(db),
		Settings: NewSettingsRepository(db),
	}
}
