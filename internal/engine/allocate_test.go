package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiaobuy/liango/internal/entity"
)

func makeOrder(id string, minute int, quantity, bought int) entity.Order {
	return entity.Order{
		ID:             id,
		ProductID:      "prod-1",
		CustomerID:     "cust-" + id,
		Quantity:       quantity,
		QuantityBought: bought,
		Status:         entity.OrderStatusPending,
		OrderedAt:      time.Date(2026, 8, 1, 10, minute, 0, 0, time.UTC),
	}
}

func makeGroup(orders ...entity.Order) Group {
	g := Group{ProductID: "prod-1", Variant: DefaultVariant, Orders: orders}
	for _, o := range orders {
		g.TotalNeeded += o.Quantity
		g.TotalBought += o.QuantityBought
	}
	return g
}

func TestReallocatePartialFill(t *testing.T) {
	// EVE 止痛藥：A 先下单要 2，B 后下单要 3，总共买到 4
	g := makeGroup(
		makeOrder("a", 1, 2, 0),
		makeOrder("b", 2, 3, 0),
	)
	updates := Reallocate(g, 4)
	require.Len(t, updates, 2)

	assert.Equal(t, "a", updates[0].OrderID)
	assert.Equal(t, 2, updates[0].QuantityBought)
	assert.Equal(t, entity.OrderStatusBought, updates[0].Status)

	assert.Equal(t, "b", updates[1].OrderID)
	assert.Equal(t, 2, updates[1].QuantityBought)
	assert.Equal(t, entity.OrderStatusPending, updates[1].Status)
}

func TestReallocateScarceSupply(t *testing.T) {
	g := makeGroup(
		makeOrder("a", 1, 2, 0),
		makeOrder("b", 2, 3, 0),
	)
	updates := Reallocate(g, 1)
	require.Len(t, updates, 2)

	assert.Equal(t, 1, updates[0].QuantityBought)
	assert.Equal(t, entity.OrderStatusPending, updates[0].Status)
	assert.Equal(t, 0, updates[1].QuantityBought)
	assert.Equal(t, entity.OrderStatusPending, updates[1].Status)
}

func TestReallocateConservation(t *testing.T) {
	g := makeGroup(
		makeOrder("a", 1, 2, 0),
		makeOrder("b", 2, 3, 0),
		makeOrder("c", 3, 5, 0),
	)
	for total := 0; total <= g.TotalNeeded; total++ {
		updates := Reallocate(g, total)
		sum := 0
		for _, u := range updates {
			sum += u.QuantityBought
		}
		assert.Equalf(t, total, sum, "total=%d", total)
	}
}

func TestReallocatePriorityOrdering(t *testing.T) {
	g := makeGroup(
		makeOrder("a", 1, 4, 0),
		makeOrder("b", 2, 2, 0),
		makeOrder("c", 3, 3, 0),
	)
	for total := 0; total <= g.TotalNeeded; total++ {
		updates := Reallocate(g, total)
		for i := 1; i < len(updates); i++ {
			if updates[i].QuantityBought > 0 {
				assert.Equalf(t, g.Orders[i-1].Quantity, updates[i-1].QuantityBought,
					"total=%d: 晚单有量时早单必须已满", total)
			}
		}
	}
}

func TestReallocateIdempotent(t *testing.T) {
	g := makeGroup(
		makeOrder("a", 1, 2, 0),
		makeOrder("b", 2, 3, 0),
	)
	first := Reallocate(g, 4)

	// 套用第一次结果后再次分配同一总量
	applied := makeGroup(
		makeOrder("a", 1, 2, first[0].QuantityBought),
		makeOrder("b", 2, 3, first[1].QuantityBought),
	)
	second := Reallocate(applied, 4)
	assert.Equal(t, first, second)
}

func TestReallocateMonotonic(t *testing.T) {
	base := makeGroup(
		makeOrder("a", 1, 2, 0),
		makeOrder("b", 2, 3, 0),
		makeOrder("c", 3, 4, 0),
	)
	for t1 := 0; t1 <= base.TotalNeeded; t1++ {
		r1 := Reallocate(base, t1)
		for t2 := t1; t2 <= base.TotalNeeded; t2++ {
			r2 := Reallocate(base, t2)
			for i := range r1 {
				if r1[i].QuantityBought == base.Orders[i].Quantity {
					assert.GreaterOrEqualf(t, r2[i].QuantityBought, r1[i].QuantityBought,
						"t1=%d t2=%d order=%s", t1, t2, r1[i].OrderID)
				}
			}
		}
	}
}

func TestReallocateOverbuy(t *testing.T) {
	// 回报量超过总需求不是错误，所有订单全满
	g := makeGroup(
		makeOrder("a", 1, 2, 0),
		makeOrder("b", 2, 3, 0),
	)
	updates := Reallocate(g, 9)
	assert.Equal(t, 2, updates[0].QuantityBought)
	assert.Equal(t, 3, updates[1].QuantityBought)
	assert.Equal(t, entity.OrderStatusBought, updates[0].Status)
	assert.Equal(t, entity.OrderStatusBought, updates[1].Status)
}

func TestReallocateNegativeClamp(t *testing.T) {
	g := makeGroup(makeOrder("a", 1, 2, 1))
	updates := Reallocate(g, -5)
	require.Len(t, updates, 1)
	assert.Equal(t, 0, updates[0].QuantityBought)
	assert.Equal(t, entity.OrderStatusPending, updates[0].Status)
}

func TestReallocateEmptyGroup(t *testing.T) {
	assert.Nil(t, Reallocate(Group{}, 5))
}

func TestReallocateZeroQuantityOrder(t *testing.T) {
	// 零需求订单视为已满足，不消耗供给
	g := makeGroup(
		makeOrder("a", 1, 0, 0),
		makeOrder("b", 2, 2, 0),
	)
	updates := Reallocate(g, 2)
	assert.Equal(t, 0, updates[0].QuantityBought)
	assert.Equal(t, entity.OrderStatusBought, updates[0].Status)
	assert.Equal(t, 2, updates[1].QuantityBought)
	assert.Equal(t, entity.OrderStatusBought, updates[1].Status)
}

func TestAllocateIncrement(t *testing.T) {
	// 已买 2（A 满），再买 2：新增区间 [2,4) 覆盖到 B
	g := makeGroup(
		makeOrder("a", 1, 2, 2),
		makeOrder("b", 2, 3, 0),
	)
	res := AllocateIncrement(g, 2)
	require.Len(t, res.Updates, 2)
	assert.Equal(t, 2, res.Updates[0].QuantityBought)
	assert.Equal(t, 2, res.Updates[1].QuantityBought)
	assert.Equal(t, []string{"b"}, res.NewlySatisfiedOrderIDs)
}

func TestAllocateIncrementSpansOrders(t *testing.T) {
	// 已买 1（A 还差 1），再买 3：新增区间 [1,4) 同时触及 A 和 B
	g := makeGroup(
		makeOrder("a", 1, 2, 1),
		makeOrder("b", 2, 3, 0),
	)
	res := AllocateIncrement(g, 3)
	assert.Equal(t, 2, res.Updates[0].QuantityBought)
	assert.Equal(t, entity.OrderStatusBought, res.Updates[0].Status)
	assert.Equal(t, 2, res.Updates[1].QuantityBought)
	assert.Equal(t, entity.OrderStatusPending, res.Updates[1].Status)
	assert.Equal(t, []string{"a", "b"}, res.NewlySatisfiedOrderIDs)
}

func TestAllocateIncrementNoOverlap(t *testing.T) {
	// 全部已满后再追加，新增区间落在所有需求区间之外
	g := makeGroup(
		makeOrder("a", 1, 2, 2),
		makeOrder("b", 2, 3, 3),
	)
	res := AllocateIncrement(g, 4)
	assert.Empty(t, res.NewlySatisfiedOrderIDs)
	assert.Equal(t, 2, res.Updates[0].QuantityBought)
	assert.Equal(t, 3, res.Updates[1].QuantityBought)
}
