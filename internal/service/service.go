package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chiaobuy/liango/internal/config"
	"github.com/chiaobuy/liango/internal/repository"
)

// Services 服务集合
type Services struct {
	Auth     *AuthService
	Product  *ProductService
	Customer *CustomerService
	Order    *OrderService
	Shopping *ShoppingService
	Billing  *BillingService
	Session  *SessionService
	Settings *SettingsService
	Export   *ExportService
	AIParse  *AIParseService
}

func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, minioClient *minio.Client, cfg *config.Config, logger *zap.Logger) *Services {
	billing := NewBillingService(repos.Order, repos.Product, repos.Customer, repos.Settings, logger)
	return &Services{
		Auth:     NewAuthService(cfg.Auth, cfg.JWT),
		Product:  NewProductService(repos.Product, repos.Settings),
		Customer: NewCustomerService(repos.Customer, logger),
		Order:    NewOrderService(repos.Order, repos.Product, repos.Customer, logger),
		Shopping: NewShoppingService(repos.Order, repos.Product, rdb, db),
		Billing:  billing,
		Session:  NewSessionService(repos.Session, repos.Order, repos.Customer, db, logger),
		Settings: NewSettingsService(repos.Settings),
		Export:   NewExportService(billing, repos.Order, repos.Product),
		AIParse:  NewAIParseService(cfg.LLM, cfg.MinIO, repos.Product, repos.Customer, minioClient, logger),
	}
}
