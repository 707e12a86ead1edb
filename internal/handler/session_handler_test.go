package handler

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/repository"
	"github.com/chiaobuy/liango/internal/service"
	"github.com/chiaobuy/liango/internal/testutil"
)

func setupSessionTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	svc := service.NewSessionService(repos.Session, repos.Order, repos.Customer, db, zap.NewNop())
	h := NewSessionHandler(svc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/sessions/archive", h.Archive)
	api.GET("/sessions", h.List)
	api.POST("/sessions/orders/:orderId/abandon", h.AbandonToStock)
	api.POST("/sessions/customers/:customerId/abandon-all", h.AbandonAllByCustomer)
	api.POST("/sessions/orders/:orderId/reassign", h.ReassignFromStock)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestArchiveSessionSkipsStockOrders(t *testing.T) {
	env := setupSessionTest(t)
	token := testutil.DefaultTestToken()

	sentinel := testutil.SeedStockCustomer(t, env.DB)
	customer := testutil.SeedCustomer(t, env.DB, "小美")
	product := testutil.SeedProduct(t, env.DB, "EVE止痛藥", 250)

	customerOrder := testutil.SeedOrder(t, env.DB, &entity.Order{
		ProductID: product.ID, CustomerID: customer.ID,
		Quantity: 2, QuantityBought: 2, Status: entity.OrderStatusBought,
	})
	stockOrder := testutil.SeedOrder(t, env.DB, &entity.Order{
		ProductID: product.ID, CustomerID: sentinel.ID,
		Quantity: 1, QuantityBought: 1, Status: entity.OrderStatusBought,
	})

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/sessions/archive",
		map[string]interface{}{"name": "2026-08 第一團"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["order_count"].(float64) != 1 {
		t.Errorf("Expected order_count 1, got %v", data["order_count"])
	}

	var archived entity.Order
	env.DB.First(&archived, "id = ?", customerOrder.ID)
	if !archived.IsArchived {
		t.Error("Customer order should be archived")
	}
	if archived.SessionID == nil {
		t.Error("Archived order should carry session id")
	}

	var stock entity.Order
	env.DB.First(&stock, "id = ?", stockOrder.ID)
	if stock.IsArchived {
		t.Error("Stock order must survive archival")
	}
}

func TestArchiveWithoutSentinelFails(t *testing.T) {
	env := setupSessionTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/sessions/archive",
		map[string]interface{}{"name": "無庫存客戶團"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAbandonToStockAndReassign(t *testing.T) {
	env := setupSessionTest(t)
	token := testutil.DefaultTestToken()

	sentinel := testutil.SeedStockCustomer(t, env.DB)
	customer := testutil.SeedCustomer(t, env.DB, "跑單客")
	buyer := testutil.SeedCustomer(t, env.DB, "接手客")
	product := testutil.SeedProduct(t, env.DB, "吻部精華", 890)

	order := testutil.SeedOrder(t, env.DB, &entity.Order{
		ProductID: product.ID, CustomerID: customer.ID,
		Quantity: 1, QuantityBought: 1, Status: entity.OrderStatusBought,
		IsPaid: true, PaymentMethod: "轉帳", PaymentNote: "12345",
		OrderedAt: time.Now().Add(-time.Hour),
	})

	// 弃单转库存
	w := testutil.DoRequest(env.Router, "POST",
		"/api/v1/sessions/orders/"+order.ID+"/abandon", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var abandoned entity.Order
	env.DB.First(&abandoned, "id = ?", order.ID)
	if abandoned.CustomerID != sentinel.ID {
		t.Errorf("Abandoned order should belong to stock sentinel, got %s", abandoned.CustomerID)
	}
	if abandoned.Status != entity.OrderStatusBought {
		t.Errorf("Expected status BOUGHT, got %s", abandoned.Status)
	}
	if abandoned.IsPaid || abandoned.PaymentMethod != "" || abandoned.PaymentNote != "" {
		t.Error("Payment state must be cleared on abandon")
	}
	if abandoned.NotificationStatus != entity.NotifyStatusUnnotified {
		t.Errorf("Expected UNNOTIFIED, got %s", abandoned.NotificationStatus)
	}

	// 库存转售给新客户
	w2 := testutil.DoRequest(env.Router, "POST",
		"/api/v1/sessions/orders/"+order.ID+"/reassign",
		map[string]interface{}{"customer_id": buyer.ID}, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	var reassigned entity.Order
	env.DB.First(&reassigned, "id = ?", order.ID)
	if reassigned.CustomerID != buyer.ID {
		t.Errorf("Reassigned order should belong to buyer, got %s", reassigned.CustomerID)
	}

	// 非库存单不可转售
	w3 := testutil.DoRequest(env.Router, "POST",
		"/api/v1/sessions/orders/"+order.ID+"/reassign",
		map[string]interface{}{"customer_id": customer.ID}, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for non-stock order, got %d", w3.Code)
	}
}

func TestAbandonAllByCustomer(t *testing.T) {
	env := setupSessionTest(t)
	token := testutil.DefaultTestToken()

	sentinel := testutil.SeedStockCustomer(t, env.DB)
	customer := testutil.SeedCustomer(t, env.DB, "整單跑")
	product := testutil.SeedProduct(t, env.DB, "面膜", 120)

	for i := 0; i < 3; i++ {
		testutil.SeedOrder(t, env.DB, &entity.Order{
			ProductID: product.ID, CustomerID: customer.ID,
			Quantity: 1, QuantityBought: 1, Status: entity.OrderStatusBought,
		})
	}

	w := testutil.DoRequest(env.Router, "POST",
		"/api/v1/sessions/customers/"+customer.ID+"/abandon-all", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["abandoned_count"].(float64) != 3 {
		t.Errorf("Expected 3 abandoned, got %v", data["abandoned_count"])
	}

	var count int64
	env.DB.Model(&entity.Order{}).Where("customer_id = ?", sentinel.ID).Count(&count)
	if count != 3 {
		t.Errorf("Expected 3 orders under stock sentinel, got %d", count)
	}
}
