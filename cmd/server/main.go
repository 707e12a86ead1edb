package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chiaobuy/liango/internal/config"
	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/handler"
	"github.com/chiaobuy/liango/internal/middleware"
	"github.com/chiaobuy/liango/internal/repository"
	"github.com/chiaobuy/liango/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting liango service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化MinIO（仅AI解析的截图归档用，失败不阻塞启动）
	minioClient, err := initMinIO(cfg.MinIO)
	if err != nil {
		zapLogger.Warn("Failed to init MinIO client, screenshot archive disabled", zap.Error(err))
	}

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, rdb, minioClient, cfg, zapLogger)

	// 自举库存占位客户（弃单/超买的承接方）
	if _, err := services.Customer.EnsureStockSentinel(); err != nil {
		zapLogger.Fatal("Failed to ensure stock sentinel customer", zap.Error(err))
	}

	handlers := handler.NewHandlers(services)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initMinIO(cfg config.MinIOConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint not configured")
	}
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")

	// 登录（无需鉴权）
	v1.POST("/auth/login", h.Auth.Login)

	// 其余接口需要操作员令牌
	api := v1.Group("", middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 商品
		api.POST("/products", h.Product.Create)
		api.GET("/products", h.Product.List)
		api.GET("/products/:id", h.Product.Get)
		api.PUT("/products/:id", h.Product.Update)
		api.DELETE("/products/:id", h.Product.Delete)
		api.GET("/products/:id/suggest-price", h.Product.SuggestPrice)

		// 客户
		api.POST("/customers", h.Customer.Create)
		api.GET("/customers", h.Customer.List)
		api.GET("/customers/:id", h.Customer.Get)
		api.PUT("/customers/:id", h.Customer.Update)
		api.DELETE("/customers/:id", h.Customer.Delete)

		// 订单
		api.POST("/orders", h.Order.Create)
		api.GET("/orders", h.Order.List)
		api.GET("/orders/:id", h.Order.Get)
		api.PUT("/orders/:id", h.Order.Update)
		api.DELETE("/orders/:id", h.Order.Delete)
		api.POST("/orders/:id/pay", h.Order.Pay)
		api.POST("/orders/:id/notify", h.Order.MarkNotified)

		// 采购清单与分配
		api.GET("/shopping-list", h.Shopping.List)
		api.POST("/shopping-list/reallocate", h.Shopping.Reallocate)
		api.POST("/shopping-list/increment", h.Shopping.Increment)

		// 对帐单
		api.GET("/bills", h.Billing.List)
		api.GET("/bills/:customerId", h.Billing.Get)
		api.POST("/bills/:customerId/message", h.Billing.RenderMessage)

		// 连线归档与弃单流转
		api.POST("/sessions/archive", h.Session.Archive)
		api.GET("/sessions", h.Session.List)
		api.POST("/sessions/orders/:orderId/abandon", h.Session.AbandonToStock)
		api.POST("/sessions/customers/:customerId/abandon-all", h.Session.AbandonAllByCustomer)
		api.POST("/sessions/orders/:orderId/reassign", h.Session.ReassignFromStock)

		// 全局设置
		api.GET("/settings", h.Settings.Get)
		api.PUT("/settings", h.Settings.Update)

		// 导出
		api.GET("/export/bills.xlsx", h.Export.BillsXLSX)
		api.GET("/export/orders.csv", h.Export.OrdersCSV)

		// AI 订单解析
		api.POST("/ai/parse-order", h.AIParse.ParseOrder)
	}
}
