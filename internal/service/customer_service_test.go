package service

import (
	"testing"

	"go.uber.org/zap"

	"github.com/chiaobuy/liango/internal/entity"
	"github.com/chiaobuy/liango/internal/repository"
	"github.com/chiaobuy/liango/internal/testutil"
)

func TestEnsureStockSentinelBootstraps(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewCustomerService(repos.Customer, zap.NewNop())

	sentinel, err := svc.EnsureStockSentinel()
	if err != nil {
		t.Fatalf("EnsureStockSentinel failed: %v", err)
	}
	if !sentinel.IsStock {
		t.Error("Sentinel should carry is_stock flag")
	}
	if sentinel.LineName != entity.StockCustomerName {
		t.Errorf("Expected default name %s, got %s", entity.StockCustomerName, sentinel.LineName)
	}

	// 再跑一次应复用既有占位客户，而非再建一个
	again, err := svc.EnsureStockSentinel()
	if err != nil {
		t.Fatalf("Second EnsureStockSentinel failed: %v", err)
	}
	if again.ID != sentinel.ID {
		t.Error("Bootstrap must be idempotent")
	}

	var count int64
	db.Model(&entity.Customer{}).Where("is_stock = ?", true).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 stock sentinel, got %d", count)
	}
}

func TestEnsureStockSentinelRefusesDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewCustomerService(repos.Customer, zap.NewNop())

	testutil.SeedStockCustomer(t, db)
	testutil.SeedStockCustomer(t, db)

	if _, err := svc.EnsureStockSentinel(); err == nil {
		t.Fatal("Expected error when two stock sentinels exist")
	}
}

func TestDeleteBlocksStockSentinel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewCustomerService(repos.Customer, zap.NewNop())

	sentinel := testutil.SeedStockCustomer(t, db)
	if err := svc.Delete(sentinel.ID); err == nil {
		t.Fatal("Deleting the stock sentinel must be refused")
	}

	normal := testutil.SeedCustomer(t, db, "普通客")
	if err := svc.Delete(normal.ID); err != nil {
		t.Fatalf("Deleting a normal customer should work: %v", err)
	}
}

func TestCreateCustomerDedupByLineName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewCustomerService(repos.Customer, zap.NewNop())

	if _, err := svc.Create(CreateCustomerRequest{LineName: "小美"}); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	if _, err := svc.Create(CreateCustomerRequest{LineName: "小美"}); err == nil {
		t.Fatal("Expected duplicate line name to be rejected")
	}
}
