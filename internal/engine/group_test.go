package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiaobuy/liango/internal/entity"
)

func TestGroupOrdersByProductVariant(t *testing.T) {
	products := []entity.Product{
		{ID: "p1", Name: "EVE 止痛藥"},
		{ID: "p2", Name: "襪子", Variants: []string{"M", "L"}},
	}
	at := func(min int) time.Time { return time.Date(2026, 8, 1, 9, min, 0, 0, time.UTC) }
	orders := []entity.Order{
		{ID: "o1", ProductID: "p1", Quantity: 2, QuantityBought: 1, OrderedAt: at(5)},
		{ID: "o2", ProductID: "p2", Variant: "M", Quantity: 1, OrderedAt: at(1)},
		{ID: "o3", ProductID: "p1", Quantity: 3, OrderedAt: at(2)},
		{ID: "o4", ProductID: "p2", Variant: "L", Quantity: 2, OrderedAt: at(3)},
		{ID: "o5", ProductID: "p2", Variant: "M", Quantity: 4, OrderedAt: at(4)},
	}

	groups := GroupOrders(products, orders)
	require.Len(t, groups, 3)

	// p1 无变体归入预设键
	assert.Equal(t, "p1", groups[0].ProductID)
	assert.Equal(t, DefaultVariant, groups[0].Variant)
	assert.Equal(t, 5, groups[0].TotalNeeded)
	assert.Equal(t, 1, groups[0].TotalBought)
	// 组内按下单时间升序：o3 (09:02) 在 o1 (09:05) 之前
	assert.Equal(t, "o3", groups[0].Orders[0].ID)
	assert.Equal(t, "o1", groups[0].Orders[1].ID)

	assert.Equal(t, "M", groups[1].Variant)
	assert.Equal(t, 5, groups[1].TotalNeeded)
	assert.Equal(t, "L", groups[2].Variant)
	assert.Equal(t, 2, groups[2].TotalNeeded)
}

func TestGroupOrdersSkipsArchivedAndStale(t *testing.T) {
	products := []entity.Product{{ID: "p1"}}
	orders := []entity.Order{
		{ID: "o1", ProductID: "p1", Quantity: 2, IsArchived: true},
		{ID: "o2", ProductID: "missing", Quantity: 3},
	}
	assert.Empty(t, GroupOrders(products, orders))
}

func TestGroupOrdersTieBreakByID(t *testing.T) {
	products := []entity.Product{{ID: "p1"}}
	same := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	orders := []entity.Order{
		{ID: "b", ProductID: "p1", Quantity: 1, OrderedAt: same},
		{ID: "a", ProductID: "p1", Quantity: 1, OrderedAt: same},
	}
	groups := GroupOrders(products, orders)
	require.Len(t, groups, 1)
	assert.Equal(t, "a", groups[0].Orders[0].ID)
}

func TestGroupIsComplete(t *testing.T) {
	g := Group{TotalNeeded: 3, TotalBought: 3}
	assert.True(t, g.IsComplete())
	g.TotalBought = 2
	assert.False(t, g.IsComplete())
	g.TotalBought = 5
	assert.True(t, g.IsComplete())
}
