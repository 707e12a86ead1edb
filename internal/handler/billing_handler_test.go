package handler

import (
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/repository"
	"github.com/chiaobuy/liango/internal/service"
	"github.com/chiaobuy/liango/internal/testutil"
)

func setupBillingTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	svc := service.NewBillingService(repos.Order, repos.Product, repos.Customer, repos.Settings, zap.NewNop())
	h := NewBillingHandler(svc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/bills", h.List)
	api.GET("/bills/:customerId", h.Get)
	api.POST("/bills/:customerId/message", h.RenderMessage)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestGetBillComputesRemittance(t *testing.T) {
	env := setupBillingTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedCustomer(t, env.DB, "小美")
	product := testutil.SeedProduct(t, env.DB, "EVE止痛藥", 250)

	// 买到2件，金额按实际买到数计
	testutil.SeedOrder(t, env.DB, &entity.Order{
		ProductID: product.ID, CustomerID: customer.ID,
		Quantity: 3, QuantityBought: 2, Status: entity.OrderStatusPending,
	})

	// 预设运费38、面交已付20
	env.DB.Create(&entity.Settings{ID: entity.SettingsID, ShippingFee: 38, FreeShippingThreshold: 3000, PickupPayment: 20})

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/bills/"+customer.ID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})

	if data["subtotal"].(float64) != 500 {
		t.Errorf("Expected subtotal 500, got %v", data["subtotal"])
	}
	if data["is_free_shipping"].(bool) {
		t.Error("500 should not reach free shipping threshold")
	}
	if data["remittance_amount"].(float64) != 442 {
		t.Errorf("Expected remittance 442 (500-20-38), got %v", data["remittance_amount"])
	}
}

func TestListBillsSkipsStockCustomer(t *testing.T) {
	env := setupBillingTest(t)
	token := testutil.DefaultTestToken()

	sentinel := testutil.SeedStockCustomer(t, env.DB)
	customer := testutil.SeedCustomer(t, env.DB, "真客戶")
	product := testutil.SeedProduct(t, env.DB, "面膜", 120)

	testutil.SeedOrder(t, env.DB, &entity.Order{
		ProductID: product.ID, CustomerID: customer.ID,
		Quantity: 1, QuantityBought: 1, Status: entity.OrderStatusBought,
	})
	testutil.SeedOrder(t, env.DB, &entity.Order{
		ProductID: product.ID, CustomerID: sentinel.ID,
		Quantity: 5, QuantityBought: 5, Status: entity.OrderStatusBought,
	})

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/bills", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	bills := resp["data"].([]interface{})
	if len(bills) != 1 {
		t.Fatalf("Expected 1 bill (stock excluded), got %d", len(bills))
	}
	bill := bills[0].(map[string]interface{})
	if bill["customer_id"] != customer.ID {
		t.Errorf("Expected bill for real customer, got %v", bill["customer_id"])
	}
}

func TestRenderBillingMessage(t *testing.T) {
	env := setupBillingTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedCustomer(t, env.DB, "小美")
	product := testutil.SeedProduct(t, env.DB, "吻部精華", 890)

	testutil.SeedOrder(t, env.DB, &entity.Order{
		ProductID: product.ID, CustomerID: customer.ID,
		Quantity: 1, QuantityBought: 1, Status: entity.OrderStatusBought,
	})

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/bills/"+customer.ID+"/message",
		map[string]interface{}{"session_name": "2026-08 第一團"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	message := data["message"].(string)

	if !strings.Contains(message, "小美") {
		t.Errorf("Message should contain customer name: %s", message)
	}
	if !strings.Contains(message, "吻部精華") {
		t.Errorf("Message should contain product name: %s", message)
	}
	if !strings.Contains(message, "890") {
		t.Errorf("Message should contain amount: %s", message)
	}
}

func TestGetBillWithoutBillableOrders(t *testing.T) {
	env := setupBillingTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedCustomer(t, env.DB, "空手客")

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/bills/"+customer.ID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for customer with nothing bought, got %d", w.Code)
	}
}
