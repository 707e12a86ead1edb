package handler

import "github.com/chiaobuy/liango/internal/service"

// Handlers HTTP处理器集合
type Handlers struct {
	Auth     *AuthHandler
	Product  *ProductHandler
	Customer *CustomerHandler
	Order    *OrderHandler
	Shopping *ShoppingHandler
	Billing  *BillingHandler
	Session  *SessionHandler
	Settings *SettingsHandler
	Export   *ExportHandler
	AIParse  *AIParseHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:     NewAuthHandler(services.Auth),
		Product:  NewProductHandler(services.Product),
		Customer: NewCustomerHandler(services.Customer),
		Order:    NewOrderHandler(services.Order),
		Shopping: NewShoppingHandler(services.Shopping),
		Billing:  NewBillingHandler(services.Billing),
		Session:  NewSessionHandler(services.Session),
		Settings: NewSettingsHandler(services.Settings),
		Export:   NewExportHandler(services.Export),
		AIParse:  NewAIParseHandler(services.AIParse),
	}
}
