// Package engine 实现連線核心算法：需求汇总、采购量分配、对账计算。
// 包内全部是纯函数，不读全局状态、不产生副作用；持久化由 service 层负责。
package engine

import (
	"sort"

	"github.com/chiaobuy/liango/internal/entity"
)

// DefaultVariant 无变体订单的分组键，与任何真实变体字符串区分开
const DefaultVariant = "__default__"

// Group 同一（商品，变体）下的全部活跃订单，按下单时间升序
type Group struct {
	ProductID   string         `json:"product_id"`
	Variant     string         `json:"variant"`
	TotalNeeded int            `json:"total_needed"`
	TotalBought int            `json:"total_bought"`
	Orders      []entity.Order `json:"orders"`
}

// IsComplete 已买量是否覆盖全部需求
func (g *Group) IsComplete() bool {
	return g.TotalBought >= g.TotalNeeded
}

// NormalizeVariant 订单变体为空时归入 DefaultVariant
func NormalizeVariant(variant string) string {
	if variant == "" {
		return DefaultVariant
	}
	return variant
}

type groupKey struct {
	productID string
	variant   string
}

// GroupOrders 将订单平铺列表汇总成（商品，变体）分组。
// 只统计未归档订单；TotalNeeded 为 0 的分组丢弃（防御陈旧引用）。
// 分组内订单按 OrderedAt 升序，时间相同以 ID 升序保证确定性。
func GroupOrders(products []entity.Product, orders []entity.Order) []Group {
	productIDs := make(map[string]int, len(products))
	for i, p := range products {
		productIDs[p.ID] = i
	}

	byKey := make(map[groupKey]*Group)
	var keys []groupKey
	for _, o := range orders {
		if o.IsArchived {
			continue
		}
		if _, ok := productIDs[o.ProductID]; !ok {
			continue // 商品已删除的陈旧订单不参与汇总
		}
		key := groupKey{productID: o.ProductID, variant: NormalizeVariant(o.Variant)}
		g, ok := byKey[key]
		if !ok {
			g = &Group{ProductID: key.productID, Variant: key.variant}
			byKey[key] = g
			keys = append(keys, key)
		}
		g.TotalNeeded += o.Quantity
		g.TotalBought += o.QuantityBought
		g.Orders = append(g.Orders, o)
	}

	// 输出顺序跟随商品列表顺序，同商品内按变体出现顺序
	sort.SliceStable(keys, func(i, j int) bool {
		return productIDs[keys[i].productID] < productIDs[keys[j].productID]
	})

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		g := byKey[key]
		if g.TotalNeeded == 0 {
			continue
		}
		sortOrdersByPriority(g.Orders)
		groups = append(groups, *g)
	}
	return groups
}

// sortOrdersByPriority 按下单时间升序，时间相同按 ID 升序
func sortOrdersByPriority(orders []entity.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].OrderedAt.Equal(orders[j].OrderedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].OrderedAt.Before(orders[j].OrderedAt)
	})
}
